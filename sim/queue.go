// Implements the WaitQueue, which holds the grant continuations of
// customers waiting for a checkout counter.

package sim

import (
	"fmt"
	"strings"
)

// GrantFunc resumes a waiting requester once a counter has been assigned
// to it. Its error propagates to whoever released the counter.
type GrantFunc func(*Lease) error

// pendingRequest is one entry of the wait queue.
type pendingRequest struct {
	ticket  uint64 // position in arrival order, for diagnostics
	onGrant GrantFunc
}

// WaitQueue is a FIFO queue of pending counter requests. Grant order is
// strictly enqueue order.
type WaitQueue struct {
	queue []pendingRequest
}

// Enqueue adds a request to the back of the wait queue.
func (wq *WaitQueue) Enqueue(r pendingRequest) {
	wq.queue = append(wq.queue, r)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprintf("#%d", val.ticket))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of requests in the queue.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Dequeue removes the request at the front of the queue.
// The second return value is false when the queue is empty.
func (wq *WaitQueue) Dequeue() (pendingRequest, bool) {
	if len(wq.queue) == 0 {
		return pendingRequest{}, false
	}
	head := wq.queue[0]
	wq.queue[0] = pendingRequest{}
	wq.queue = wq.queue[1:]
	return head, true
}
