package sim

import "github.com/sirupsen/logrus"

// ArrivalGenerator lets customers into the shop at uniformly random gaps
// until the arrival cutoff. Customers already inside are never affected by
// the generator stopping.
type ArrivalGenerator struct {
	cutoff       int64
	maxGap       int64
	maxCustomers int // 0 = no cap
	gaps         Sampler
	created      int
	stopped      bool
}

// NewArrivalGenerator creates a generator. maxGap is also the safety margin
// subtracted from cutoff: a wake-up at or after cutoff-maxGap admits nobody.
func NewArrivalGenerator(cutoff, maxGap int64, maxCustomers int, gaps Sampler) *ArrivalGenerator {
	return &ArrivalGenerator{
		cutoff:       cutoff,
		maxGap:       maxGap,
		maxCustomers: maxCustomers,
		gaps:         gaps,
	}
}

// Start schedules the first wake-up one sampled gap from now.
func (g *ArrivalGenerator) Start(sim *Simulator) error {
	return g.scheduleNext(sim)
}

// Created returns the number of customers the generator has admitted.
func (g *ArrivalGenerator) Created() int {
	return g.created
}

// Stopped reports whether the generator has closed the doors.
func (g *ArrivalGenerator) Stopped() bool {
	return g.stopped
}

func (g *ArrivalGenerator) scheduleNext(sim *Simulator) error {
	return sim.ScheduleAfter(g.gaps.Sample(), func(at int64) Event {
		return &ArrivalEvent{time: at, Generator: g}
	})
}

func (g *ArrivalGenerator) open(now int64) bool {
	if g.maxCustomers > 0 && g.created >= g.maxCustomers {
		return false
	}
	return now < g.cutoff-g.maxGap
}

func (g *ArrivalGenerator) wake(sim *Simulator) error {
	if !g.open(sim.Clock) {
		g.stopped = true
		logrus.Infof("[t %07d] Doors closed after %d customers", sim.Clock, g.created)
		return nil
	}
	c := sim.newCustomer()
	g.created++
	if err := sim.ScheduleAfter(0, func(at int64) Event {
		return &CustomerStartEvent{time: at, Customer: c}
	}); err != nil {
		return err
	}
	return g.scheduleNext(sim)
}
