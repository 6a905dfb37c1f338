package tui

import (
	"fmt"
	"testing"
	"time"
)

func TestEventRingEmpty(t *testing.T) {
	ring := NewEventRing(4)

	if got := ring.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d events", len(got))
	}
}

func TestEventRingPartialFill(t *testing.T) {
	ring := NewEventRing(4)
	ring.Add(Event{Text: "one"})
	ring.Add(Event{Text: "two"})

	got := ring.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Errorf("expected chronological order, got %q then %q", got[0].Text, got[1].Text)
	}
}

func TestEventRingWraps(t *testing.T) {
	ring := NewEventRing(3)
	for i := 1; i <= 5; i++ {
		ring.Add(Event{Text: fmt.Sprintf("event-%d", i)})
	}

	got := ring.Snapshot()
	if len(got) != 3 {
		t.Fatalf("expected 3 events after wrap, got %d", len(got))
	}
	want := []string{"event-3", "event-4", "event-5"}
	for i, text := range want {
		if got[i].Text != text {
			t.Errorf("position %d: expected %q, got %q", i, text, got[i].Text)
		}
	}
}

func TestEventRingZeroSize(t *testing.T) {
	ring := NewEventRing(0)
	ring.Add(Event{Text: "only"})

	got := ring.Snapshot()
	if len(got) != 1 {
		t.Fatalf("expected size to clamp to 1, got %d events", len(got))
	}
	if got[0].Text != "only" {
		t.Errorf("expected %q, got %q", "only", got[0].Text)
	}
}

func TestEventRingNilSafe(t *testing.T) {
	var ring *EventRing
	ring.Add(Event{At: time.Now(), Text: "ignored"})

	if got := ring.Snapshot(); got != nil {
		t.Errorf("expected nil snapshot from nil ring, got %v", got)
	}
}
