// Package stats records the time-stamped audit trail of a checkout run.
// This package has no dependencies on sim/; it stores pure data types.
package stats

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation is returned when a sample could only have come from
// a scheduling bug: a negative value or a timestamp going backwards.
var ErrInvariantViolation = errors.New("invariant violation")

// Sample is one observation taken at simulated time Time.
type Sample struct {
	Time  int64
	Value int64
}

// Collector holds two append-only series: queue length sampled at every
// grant, and waiting time sampled at every departure. It also tracks the
// queue depth at every change, which the time-weighted mean integrates.
type Collector struct {
	queueLengths []Sample
	waits        []Sample
	queueDepths  []Sample
}

// NewCollector creates a Collector ready for recording.
func NewCollector() *Collector {
	return &Collector{
		queueLengths: make([]Sample, 0, 256),
		waits:        make([]Sample, 0, 256),
		queueDepths:  make([]Sample, 0, 512),
	}
}

// RecordQueueLength appends a queue-length sample.
func (c *Collector) RecordQueueLength(t int64, value int) error {
	s, err := checkedAppend("queue length", c.queueLengths, Sample{Time: t, Value: int64(value)})
	if err != nil {
		return err
	}
	c.queueLengths = s
	return nil
}

// RecordWait appends a waiting-time sample.
func (c *Collector) RecordWait(t int64, value int64) error {
	s, err := checkedAppend("wait duration", c.waits, Sample{Time: t, Value: value})
	if err != nil {
		return err
	}
	c.waits = s
	return nil
}

// RecordQueueDepth notes the number of waiting customers right after it
// changed, on joins as well as grants.
func (c *Collector) RecordQueueDepth(t int64, depth int) error {
	s, err := checkedAppend("queue depth", c.queueDepths, Sample{Time: t, Value: int64(depth)})
	if err != nil {
		return err
	}
	c.queueDepths = s
	return nil
}

func checkedAppend(series string, log []Sample, s Sample) ([]Sample, error) {
	if s.Value < 0 {
		return log, fmt.Errorf("%w: negative %s %d at t=%d", ErrInvariantViolation, series, s.Value, s.Time)
	}
	if n := len(log); n > 0 && s.Time < log[n-1].Time {
		return log, fmt.Errorf("%w: %s sample at t=%d recorded after t=%d",
			ErrInvariantViolation, series, s.Time, log[n-1].Time)
	}
	return append(log, s), nil
}

// QueueLengths returns a copy of the queue-length series.
func (c *Collector) QueueLengths() []Sample {
	return append([]Sample(nil), c.queueLengths...)
}

// Waits returns a copy of the waiting-time series.
func (c *Collector) Waits() []Sample {
	return append([]Sample(nil), c.waits...)
}
