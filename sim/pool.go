package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ResourcePool models Capacity identical checkout counters shared by every
// customer of a run. Requests that find all counters busy wait in FIFO order.
//
// Not thread-safe: only ever touched from inside a single event's Execute.
type ResourcePool struct {
	capacity   int
	busy       int
	waitQ      WaitQueue
	nextTicket uint64
	nextLease  uint64
}

// Lease is the handle for one granted counter. Release it exactly once.
type Lease struct {
	ID       uint64
	pool     *ResourcePool
	released bool
}

// NewResourcePool creates a pool with capacity counters.
func NewResourcePool(capacity int) (*ResourcePool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: pool capacity must be > 0, got %d", ErrConfiguration, capacity)
	}
	return &ResourcePool{capacity: capacity}, nil
}

// Capacity returns the number of counters.
func (p *ResourcePool) Capacity() int { return p.capacity }

// Busy returns the number of counters currently leased.
func (p *ResourcePool) Busy() int { return p.busy }

// QueueLen returns the number of requests waiting for a counter.
func (p *ResourcePool) QueueLen() int { return p.waitQ.Len() }

// Request grants a counter immediately when one is free and returns
// (lease, true). Otherwise onGrant joins the tail of the wait queue and is
// invoked with a lease by the Release that frees a counter for it.
func (p *ResourcePool) Request(onGrant GrantFunc) (*Lease, bool) {
	p.nextTicket++
	if p.busy < p.capacity && p.waitQ.Len() == 0 {
		return p.grant(), true
	}
	p.waitQ.Enqueue(pendingRequest{ticket: p.nextTicket, onGrant: onGrant})
	logrus.Debugf("Pool full (%d/%d), request #%d queued behind %d", p.busy, p.capacity, p.nextTicket, p.waitQ.Len()-1)
	return nil, false
}

func (p *ResourcePool) grant() *Lease {
	p.busy++
	p.nextLease++
	return &Lease{ID: p.nextLease, pool: p}
}

// Release returns the counter to the pool and hands it to the head of the
// wait queue, if any. Releasing twice returns ErrDoubleRelease.
func (l *Lease) Release() error {
	if l.released {
		return fmt.Errorf("%w: lease %d", ErrDoubleRelease, l.ID)
	}
	l.released = true
	return l.pool.release()
}

// Released reports whether Release has been called.
func (l *Lease) Released() bool {
	return l.released
}

func (p *ResourcePool) release() error {
	p.busy--
	if p.busy < 0 {
		return fmt.Errorf("%w: pool busy count %d outside [0, %d]", ErrInvariantViolation, p.busy, p.capacity)
	}
	next, ok := p.waitQ.Dequeue()
	if !ok {
		return nil
	}
	lease := p.grant()
	logrus.Debugf("Counter handed to queued request #%d (lease %d)", next.ticket, lease.ID)
	return next.onGrant(lease)
}
