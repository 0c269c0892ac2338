package sim

import "container/heap"

// Event is one pending process resumption: a continuation due at a point in
// virtual time. Events are created when a process suspends, consumed exactly
// once by the scheduler loop, and never mutated after creation.
type Event struct {
	Time float64 // due time in simulated minutes
	ID   uint64  // per-scheduler sequence number, breaks timestamp ties
	Run  func()  // the suspended process's continuation
}

// EventQueue implements a priority queue with deterministic ordering.
// Ordering: due time → event ID, so events due at the same instant fire in
// the order they were scheduled. This FIFO tie-break is what makes runs
// bit-reproducible for a fixed seed: monitor, station, and breakdown events
// routinely coincide at sampling boundaries.
type EventQueue struct {
	events []*Event
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		events: make([]*Event, 0),
	}
	heap.Init(q)
	return q
}

// Len implements heap.Interface.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Less implements heap.Interface with deterministic ordering.
// Order by: due time → event ID.
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.events[i], q.events[j]

	// Primary: due time (earlier first)
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}

	// Secondary: event ID (lower first, deterministic FIFO tie-breaker)
	return ei.ID < ej.ID
}

// Swap implements heap.Interface.
func (q *EventQueue) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
}

// Push implements heap.Interface.
func (q *EventQueue) Push(x interface{}) {
	q.events = append(q.events, x.(*Event))
}

// Pop implements heap.Interface.
func (q *EventQueue) Pop() interface{} {
	old := q.events
	n := len(old)
	item := old[n-1]
	q.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue.
func (q *EventQueue) Schedule(e *Event) {
	heap.Push(q, e)
}

// PopNext removes and returns the earliest-due event.
func (q *EventQueue) PopNext() *Event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*Event)
}

// Peek returns the earliest-due event without removing it.
func (q *EventQueue) Peek() *Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[0]
}
