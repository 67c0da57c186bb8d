package sim

import (
	"errors"

	"github.com/inference-sim/checkout-sim/sim/stats"
)

// All errors returned by the engine wrap one of these sentinels.
// They signal a misconfigured run or a scheduling defect; none are retryable.
var (
	// ErrConfiguration is returned by Config.Validate before a run starts:
	// non-positive capacity, negative durations or caps, a horizon before
	// the arrival cutoff, an unknown trace level, or a zero arrival gap
	// with no MaxCustomers cap (the clock would never leave t=0).
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidDelay is returned when an event is scheduled in the past.
	ErrInvalidDelay = errors.New("invalid event delay")

	// ErrDoubleRelease is returned when a Lease is released twice.
	ErrDoubleRelease = errors.New("lease released twice")

	// ErrInvariantViolation covers negative counters, illegal state
	// transitions and out-of-order samples.
	ErrInvariantViolation = stats.ErrInvariantViolation

	// ErrAlreadyRun is returned when Run is called on a used Simulator.
	ErrAlreadyRun = errors.New("simulator already run")
)
