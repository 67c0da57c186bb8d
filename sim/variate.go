package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws non-negative durations in simulated seconds.
type Sampler interface {
	Sample() int64
}

// UniformSampler draws integers uniformly from [0, Max], both ends included.
type UniformSampler struct {
	max  int64
	dist distuv.Uniform
}

// NewUniformSampler returns a sampler over [0, max] backed by src.
// A negative max is treated as 0.
func NewUniformSampler(max int64, src rand.Source) *UniformSampler {
	if max < 0 {
		max = 0
	}
	return &UniformSampler{
		max: max,
		// [0, max+1) floored gives every integer in [0, max] equal weight.
		dist: distuv.Uniform{Min: 0, Max: float64(max) + 1, Src: src},
	}
}

// Max returns the inclusive upper bound.
func (u *UniformSampler) Max() int64 {
	return u.max
}

// Sample implements Sampler.
func (u *UniformSampler) Sample() int64 {
	if u.max == 0 {
		return 0
	}
	v := int64(math.Floor(u.dist.Rand()))
	if v > u.max {
		return u.max
	}
	if v < 0 {
		return 0
	}
	return v
}

// FixedSampler replays a scripted sequence and then repeats its last value.
// Useful for pinning scenarios in tests and what-if runs.
type FixedSampler struct {
	values []int64
	next   int
}

// NewFixedSampler returns a sampler replaying values. Panics on an empty or
// negative script since that is a programming error.
func NewFixedSampler(values ...int64) *FixedSampler {
	if len(values) == 0 {
		panic("NewFixedSampler: values must not be empty")
	}
	for _, v := range values {
		if v < 0 {
			panic("NewFixedSampler: values must be >= 0")
		}
	}
	return &FixedSampler{values: values}
}

// Sample implements Sampler.
func (f *FixedSampler) Sample() int64 {
	v := f.values[f.next]
	if f.next < len(f.values)-1 {
		f.next++
	}
	return v
}
