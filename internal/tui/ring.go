package tui

import (
	"sync"
	"time"
)

// EventLevel classifies a dashboard event for coloring.
type EventLevel int

// Event levels from least to most severe.
const (
	EventInfo EventLevel = iota
	EventOK
	EventWarn
	EventError
)

// Event is one line of dashboard activity.
type Event struct {
	At    time.Time
	Level EventLevel
	Text  string
}

// EventRing stores the last N dashboard events.
type EventRing struct {
	mu     sync.Mutex
	size   int
	events []Event
	next   int
	full   bool
}

// NewEventRing returns a ring buffer sized for the provided event count.
func NewEventRing(size int) *EventRing {
	if size <= 0 {
		size = 1
	}
	return &EventRing{
		size:   size,
		events: make([]Event, size),
	}
}

// Add stores an event in the ring buffer.
func (r *EventRing) Add(event Event) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.next] = event
	r.next++
	if r.next >= r.size {
		r.next = 0
		r.full = true
	}
}

// Snapshot returns the buffered events in chronological order.
func (r *EventRing) Snapshot() []Event {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]Event, r.next)
		copy(out, r.events[:r.next])
		return out
	}

	out := make([]Event, r.size)
	copy(out, r.events[r.next:])
	copy(out[r.size-r.next:], r.events[:r.next])
	return out
}
