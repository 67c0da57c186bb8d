package sim

import (
	"fmt"

	"github.com/inference-sim/checkout-sim/sim/trace"
)

// Defaults describe the reference shop: four counters, service up to ten
// minutes, a customer every four minutes at most, doors open for ten hours
// and the run ending two hours later.
const (
	DefaultCapacity           = 4
	DefaultMaxServiceDuration = 10 * 60
	DefaultMaxArrivalGap      = 4 * 60
	DefaultArrivalCutoff      = 10 * 3600
	DefaultSimulationHorizon  = 12 * 3600
)

// Config groups the parameters of one simulation run. All durations are
// simulated seconds.
type Config struct {
	Capacity           int    `yaml:"capacity"`             // number of checkout counters (> 0)
	MaxServiceDuration int64  `yaml:"max_service_duration"` // upper bound of uniform service time
	MaxArrivalGap      int64  `yaml:"max_arrival_gap"`      // upper bound of uniform inter-arrival gap
	ArrivalCutoff      int64  `yaml:"arrival_cutoff"`       // no arrivals are generated after this time
	SimulationHorizon  int64  `yaml:"simulation_horizon"`   // run ends here; must be >= ArrivalCutoff
	Seed               *int64 `yaml:"seed,omitempty"`       // nil = seed from wall clock
	MaxCustomers       int    `yaml:"max_customers,omitempty"`

	TraceLevel trace.TraceLevel `yaml:"trace_level,omitempty"` // lifecycle tracing; "" or "none" disables
}

// DefaultConfig returns the reference shop configuration with no seed set.
func DefaultConfig() Config {
	return Config{
		Capacity:           DefaultCapacity,
		MaxServiceDuration: DefaultMaxServiceDuration,
		MaxArrivalGap:      DefaultMaxArrivalGap,
		ArrivalCutoff:      DefaultArrivalCutoff,
		SimulationHorizon:  DefaultSimulationHorizon,
	}
}

// WithSeed returns a copy of c with Seed set.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// Validate reports the first rule c breaks, wrapped in ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be > 0, got %d", ErrConfiguration, c.Capacity)
	case c.MaxServiceDuration < 0:
		return fmt.Errorf("%w: max_service_duration must be >= 0, got %d", ErrConfiguration, c.MaxServiceDuration)
	case c.MaxArrivalGap < 0:
		return fmt.Errorf("%w: max_arrival_gap must be >= 0, got %d", ErrConfiguration, c.MaxArrivalGap)
	case c.ArrivalCutoff < 0:
		return fmt.Errorf("%w: arrival_cutoff must be >= 0, got %d", ErrConfiguration, c.ArrivalCutoff)
	case c.SimulationHorizon < c.ArrivalCutoff:
		return fmt.Errorf("%w: simulation_horizon (%d) must be >= arrival_cutoff (%d)",
			ErrConfiguration, c.SimulationHorizon, c.ArrivalCutoff)
	case c.MaxCustomers < 0:
		return fmt.Errorf("%w: max_customers must be >= 0, got %d", ErrConfiguration, c.MaxCustomers)
	case c.MaxArrivalGap == 0 && c.MaxCustomers == 0 && c.ArrivalCutoff > 0:
		// Every gap samples to 0, so the clock never leaves t=0.
		return fmt.Errorf("%w: max_arrival_gap of 0 requires max_customers > 0", ErrConfiguration)
	case !trace.IsValidTraceLevel(string(c.TraceLevel)):
		return fmt.Errorf("%w: unknown trace_level %q", ErrConfiguration, c.TraceLevel)
	}
	return nil
}
