// sim/simulator.go
package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/checkout-sim/sim/stats"
	"github.com/inference-sim/checkout-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, shop state and
// the event loop. One Simulator models one operating day and runs once.
type Simulator struct {
	Clock int64
	// EventQueue has all pending events: arrivals, customer starts, grants
	// and departures.
	EventQueue *EventHeap
	Pool       *ResourcePool
	Stats      *stats.Collector
	Config     Config
	Seed       int64
	// Customers lists every customer created so far, in creation order.
	Customers []*Customer
	// Trace is nil unless Config.TraceLevel enables lifecycle tracing.
	Trace *trace.SimulationTrace

	// waiting counts customers that asked for a counter and have not been
	// resumed into service yet.
	waiting   int
	departed  int
	arrivals  Sampler
	service   Sampler
	generator *ArrivalGenerator
	hasRun    bool
}

// Result is the output of one run, consumed by reporting.
type Result struct {
	Seed             int64
	EndTime          int64
	CustomersCreated int
	Departed         int
	QueueLengths     []stats.Sample
	Waits            []stats.Sample
	Customers        []*Customer
	Summary          stats.Summary
	Trace            *trace.SimulationTrace // nil when tracing is off
}

// NewSimulator validates cfg and builds a Simulator whose arrival and
// service samplers are uniform streams derived from the seed. A nil
// cfg.Seed is replaced with one taken from the wall clock.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		logrus.Infof("No seed configured, using %d", seed)
	}
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	s, err := NewSimulatorWithSamplers(cfg,
		NewUniformSampler(cfg.MaxArrivalGap, rng.ForSubsystem(SubsystemArrivals)),
		NewUniformSampler(cfg.MaxServiceDuration, rng.ForSubsystem(SubsystemService)))
	if err != nil {
		return nil, err
	}
	s.Seed = seed
	return s, nil
}

// NewSimulatorWithSamplers builds a Simulator with caller-provided gap and
// service samplers. cfg.Seed is recorded but not used for sampling.
func NewSimulatorWithSamplers(cfg Config, arrivals, service Sampler) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if arrivals == nil || service == nil {
		return nil, fmt.Errorf("%w: arrival and service samplers are required", ErrConfiguration)
	}
	pool, err := NewResourcePool(cfg.Capacity)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		EventQueue: NewEventHeap(),
		Pool:       pool,
		Stats:      stats.NewCollector(),
		Config:     cfg,
		Customers:  make([]*Customer, 0),
		arrivals:   arrivals,
		service:    service,
	}
	if cfg.Seed != nil {
		s.Seed = *cfg.Seed
	}
	if cfg.TraceLevel.Enabled() {
		s.Trace = trace.NewSimulationTrace(cfg.TraceLevel)
	}
	s.generator = NewArrivalGenerator(cfg.ArrivalCutoff, cfg.MaxArrivalGap, cfg.MaxCustomers, arrivals)
	return s, nil
}

// Schedule pushes ev into the EventQueue at its own timestamp.
// An event due before the current clock is rejected with ErrInvalidDelay.
func (sim *Simulator) Schedule(ev Event) error {
	if ev.Timestamp() < sim.Clock {
		return fmt.Errorf("%w: %T due at t=%d, clock is at t=%d", ErrInvalidDelay, ev, ev.Timestamp(), sim.Clock)
	}
	sim.EventQueue.Schedule(ev)
	return nil
}

// ScheduleAfter builds an event due delay seconds from now and schedules it.
func (sim *Simulator) ScheduleAfter(delay int64, build func(at int64) Event) error {
	if delay < 0 {
		return fmt.Errorf("%w: negative delay %d at t=%d", ErrInvalidDelay, delay, sim.Clock)
	}
	return sim.Schedule(build(sim.Clock + delay))
}

// RunUntil executes events in (time, scheduling order) until none is due at
// or before horizon, then advances the clock to horizon. The first event
// error stops the loop and is returned.
func (sim *Simulator) RunUntil(horizon int64) error {
	for sim.EventQueue.Len() > 0 {
		if sim.EventQueue.Peek().Timestamp() > horizon {
			break
		}
		ev := sim.EventQueue.PopNext()
		if ev.Timestamp() < sim.Clock {
			return fmt.Errorf("%w: clock would move back from t=%d to t=%d", ErrInvariantViolation, sim.Clock, ev.Timestamp())
		}
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[t %07d] Executing %T", sim.Clock, ev)
		if err := ev.Execute(sim); err != nil {
			return fmt.Errorf("%T at t=%d: %w", ev, sim.Clock, err)
		}
	}
	if sim.Clock < horizon {
		sim.Clock = horizon
	}
	return nil
}

// Run starts the arrival generator and simulates up to the configured
// horizon. A failed run returns no result.
func (sim *Simulator) Run() (*Result, error) {
	if sim.hasRun {
		return nil, ErrAlreadyRun
	}
	sim.hasRun = true

	logrus.Infof("Starting simulation: capacity=%d, cutoff=%ds, horizon=%ds, seed=%d",
		sim.Config.Capacity, sim.Config.ArrivalCutoff, sim.Config.SimulationHorizon, sim.Seed)

	if err := sim.generator.Start(sim); err != nil {
		return nil, err
	}
	if err := sim.RunUntil(sim.Config.SimulationHorizon); err != nil {
		return nil, err
	}

	if left := len(sim.Customers) - sim.departed; left > 0 {
		logrus.Warnf("[t %07d] %d customers still in the shop at the horizon", sim.Clock, left)
	}
	logrus.Infof("[t %07d] Simulation ended: %d customers, %d departed", sim.Clock, len(sim.Customers), sim.departed)

	return &Result{
		Seed:             sim.Seed,
		EndTime:          sim.Clock,
		CustomersCreated: len(sim.Customers),
		Departed:         sim.departed,
		QueueLengths:     sim.Stats.QueueLengths(),
		Waits:            sim.Stats.Waits(),
		Customers:        sim.Customers,
		Summary:          stats.Summarize(sim.Stats, sim.Config.SimulationHorizon),
		Trace:            sim.Trace,
	}, nil
}

// Waiting returns the number of customers queued for a counter.
func (sim *Simulator) Waiting() int {
	return sim.waiting
}

// Departed returns the number of customers who have left the shop.
func (sim *Simulator) Departed() int {
	return sim.departed
}

// newCustomer registers a customer arriving now.
func (sim *Simulator) newCustomer() *Customer {
	c := &Customer{
		ID:          int64(len(sim.Customers) + 1),
		ArrivalTime: sim.Clock,
		State:       StateArrived,
	}
	sim.Customers = append(sim.Customers, c)
	return c
}
