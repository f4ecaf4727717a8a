package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/agenda/pkg/booking"
)

func TestDiskWatchEmitsMonthChanges(t *testing.T) {
	base := t.TempDir()
	p, err := NewDisk(base)
	if err != nil {
		t.Fatalf("open disk: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	b := booking.New(booking.Draft{Date: "2026-04-02", StartTime: "09:00", EndTime: "10:00", Client: "Rita"})
	if _, err := p.Insert(ctx, b); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventMonthChanged {
				if evt.Month != "2026-04" {
					t.Fatalf("expected month '2026-04', got %q", evt.Month)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for month change event")
		}
	}
}

func TestMonthForPath(t *testing.T) {
	p := &Disk{basePath: "/data"}
	tests := map[string]string{
		filepath.Join("/data", "2026", "04", "abc"): "2026-04",
		filepath.Join("/data", "2026", "04"):        "",
		filepath.Join("/data", journalFile):         "",
		"/elsewhere/2026/04/abc":                    "",
	}
	for path, want := range tests {
		if got := p.monthForPath(path); got != want {
			t.Errorf("monthForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	throttle := newEventThrottle(20 * time.Millisecond)
	defer throttle.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		throttle.Enqueue(Event{Type: EventMonthChanged, Month: "2026-04"}, send)
	}
	throttle.Enqueue(Event{Type: EventInvalidated}, send)

	time.Sleep(100 * time.Millisecond)
	if len(got) != 2 {
		t.Fatalf("expected 2 coalesced events, got %d", len(got))
	}
}
