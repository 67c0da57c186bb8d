// Defines the Customer struct that models one shopper's visit to the
// checkout area. Tracks arrival, grant and departure timestamps.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/checkout-sim/sim/trace"
)

// CustomerState represents the lifecycle state of a customer.
// Transitions are linear: arrived → waiting → in_service → departed.
type CustomerState string

const (
	StateArrived   CustomerState = "arrived"
	StateWaiting   CustomerState = "waiting"
	StateInService CustomerState = "in_service"
	StateDeparted  CustomerState = "departed"
)

// Customer models one shopper's visit, from arrival to leaving the counter.
type Customer struct {
	ID int64 // 1-based, in creation order

	State CustomerState

	ArrivalTime     int64 // when the generator created the customer
	EnqueueTime     int64 // when the counter request was issued; equals ArrivalTime
	GrantTime       int64 // when a counter was assigned
	ServiceDuration int64 // sampled once, when service begins
	DepartureTime   int64 // when the counter was released

	lease *Lease
}

// WaitDuration is the time spent queueing for a counter.
func (c *Customer) WaitDuration() int64 {
	return c.GrantTime - c.EnqueueTime
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer: (ID: %d, State: %s, ArrivalTime: %d)", c.ID, c.State, c.ArrivalTime)
}

func (c *Customer) transition(from, to CustomerState) error {
	if c.State != from {
		return fmt.Errorf("%w: customer %d cannot go %s → %s from state %s", ErrInvariantViolation, c.ID, from, to, c.State)
	}
	c.State = to
	return nil
}

// arrive joins the queue and asks for a counter. An immediate grant moves
// straight into service; otherwise the customer is suspended until the
// pool schedules its GrantEvent.
func (c *Customer) arrive(sim *Simulator) error {
	if err := c.transition(StateArrived, StateWaiting); err != nil {
		return err
	}
	c.EnqueueTime = sim.Clock
	sim.waiting++
	if err := sim.Stats.RecordQueueDepth(sim.Clock, sim.waiting); err != nil {
		return err
	}
	logrus.Debugf("[t %07d] Customer %d arrived", sim.Clock, c.ID)

	ahead := sim.Pool.QueueLen()
	lease, granted := sim.Pool.Request(func(l *Lease) error {
		return sim.ScheduleAfter(0, func(at int64) Event {
			return &GrantEvent{time: at, Customer: c, Lease: l}
		})
	})
	if sim.Trace != nil {
		sim.Trace.RecordArrival(trace.ArrivalRecord{CustomerID: c.ID, Clock: sim.Clock, Queued: !granted, Ahead: ahead})
	}
	if !granted {
		return nil
	}
	return c.beginService(sim, lease)
}

// beginService records the post-grant queue length, samples the service
// time and suspends until departure.
func (c *Customer) beginService(sim *Simulator, lease *Lease) error {
	if err := c.transition(StateWaiting, StateInService); err != nil {
		return err
	}
	c.lease = lease
	c.GrantTime = sim.Clock
	sim.waiting--
	if err := sim.Stats.RecordQueueLength(sim.Clock, sim.waiting); err != nil {
		return err
	}
	if err := sim.Stats.RecordQueueDepth(sim.Clock, sim.waiting); err != nil {
		return err
	}

	if sim.Trace != nil {
		sim.Trace.RecordGrant(trace.GrantRecord{
			CustomerID: c.ID,
			Clock:      sim.Clock,
			LeaseID:    lease.ID,
			Wait:       c.WaitDuration(),
			Busy:       sim.Pool.Busy(),
		})
	}

	c.ServiceDuration = sim.service.Sample()
	logrus.Debugf("[t %07d] Customer %d at counter after %ds, service %ds", sim.Clock, c.ID, c.WaitDuration(), c.ServiceDuration)
	return sim.ScheduleAfter(c.ServiceDuration, func(at int64) Event {
		return &DepartureEvent{time: at, Customer: c}
	})
}

// depart finishes service. The counter is released on every exit path.
func (c *Customer) depart(sim *Simulator) (err error) {
	defer func() {
		if c.lease == nil {
			return
		}
		if rerr := c.lease.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := c.transition(StateInService, StateDeparted); err != nil {
		return err
	}
	c.DepartureTime = sim.Clock
	sim.departed++
	logrus.Debugf("[t %07d] Customer %d left after waiting %ds", sim.Clock, c.ID, c.WaitDuration())
	return sim.Stats.RecordWait(sim.Clock, c.WaitDuration())
}
