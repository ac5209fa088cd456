// Implements the EventQueue, which holds every pending wake-up of the run.

package sim

import (
	"container/heap"
	"fmt"
)

// eventHeap implements heap.Interface ordered by (Time, Seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}

// EventQueue is a time-ordered priority queue of pending events.
// It owns the sequence counter used for tie-breaking, so two events pushed
// for the same timestamp always pop in push order, independent of any
// floating-point equality subtleties in how their times were computed.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Push inserts ev in O(log n) and stamps it with the next sequence number.
// Panics if ev is nil or has no process.
func (q *EventQueue) Push(ev *Event) {
	if ev == nil || ev.Process == nil {
		panic("EventQueue.Push: event and its process must not be nil")
	}
	ev.Seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.events, ev)
}

// PopMin removes and returns the event with the smallest (Time, Seq) key.
func (q *EventQueue) PopMin() (*Event, error) {
	if len(q.events) == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(&q.events).(*Event), nil
}

// PeekMin returns the next event without removing it.
func (q *EventQueue) PeekMin() (*Event, error) {
	if len(q.events) == 0 {
		return nil, ErrEmptyQueue
	}
	return q.events[0], nil
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

func (q *EventQueue) String() string {
	return fmt.Sprintf("EventQueue{pending=%d, nextSeq=%d}", len(q.events), q.nextSeq)
}
