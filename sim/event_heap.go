package sim

import "container/heap"

// scheduledEvent pairs an Event with the sequence tag it was given when
// scheduled. The tag is the tie-breaker for events due at the same instant.
type scheduledEvent struct {
	due int64
	seq uint64
	ev  Event
}

// EventHeap implements a priority queue with deterministic ordering.
// Ordering: due time → scheduling order.
type EventHeap struct {
	events  []scheduledEvent
	nextSeq uint64
}

// NewEventHeap creates a new event heap
func NewEventHeap() *EventHeap {
	h := &EventHeap{
		events: make([]scheduledEvent, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.events)
}

// Less implements heap.Interface with deterministic ordering
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ei.due != ej.due {
		return ei.due < ej.due
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

// Push implements heap.Interface
func (h *EventHeap) Push(x any) {
	h.events = append(h.events, x.(scheduledEvent))
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap at its own timestamp and returns the
// sequence tag it was assigned.
func (h *EventHeap) Schedule(e Event) uint64 {
	h.nextSeq++
	heap.Push(h, scheduledEvent{due: e.Timestamp(), seq: h.nextSeq, ev: e})
	return h.nextSeq
}

// PopNext removes and returns the next event
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(scheduledEvent).ev
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0].ev
}
