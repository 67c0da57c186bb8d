package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution captures a statistical summary of one series.
type Distribution struct {
	Mean  float64
	P50   float64
	P95   float64
	P99   float64
	Min   float64
	Max   float64
	Count int
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
		Count: len(sorted),
	}
}

// Summary aggregates one run's series for reporting.
type Summary struct {
	Wait        Distribution // waiting time in seconds, one value per departure
	QueueLength Distribution // queue length, one value per grant
	// TimeWeightedQueue is the mean number of waiting customers over
	// [0, horizon], integrated from the queue-depth changes. The queue is
	// taken as empty before the first change.
	TimeWeightedQueue float64
}

// Summarize computes a Summary from a Collector.
// Safe for nil or empty collectors (returns zero-value fields).
func Summarize(c *Collector, horizon int64) Summary {
	if c == nil {
		return Summary{}
	}
	return Summary{
		Wait:              NewDistribution(values(c.waits)),
		QueueLength:       NewDistribution(values(c.queueLengths)),
		TimeWeightedQueue: timeWeightedMean(c.queueDepths, horizon),
	}
}

func values(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s.Value)
	}
	return out
}

func timeWeightedMean(samples []Sample, horizon int64) float64 {
	if horizon <= 0 || len(samples) == 0 {
		return 0
	}
	area := 0.0
	for i, s := range samples {
		if s.Time >= horizon {
			break
		}
		end := horizon
		if i+1 < len(samples) && samples[i+1].Time < horizon {
			end = samples[i+1].Time
		}
		area += float64(s.Value) * float64(end-s.Time)
	}
	return area / float64(horizon)
}
