package reposition

import (
	"errors"
	"testing"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

func slot(start, end string) booking.Booking {
	return booking.Booking{Date: "2026-05-04", StartTime: start, EndTime: end}
}

func TestPlacement(t *testing.T) {
	tests := []struct {
		name      string
		placement Placement
		day       []booking.Booking
		duration  int
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{
			name:      "above earliest",
			placement: Above,
			day:       []booking.Booking{slot("14:00", "15:00"), slot("10:00", "12:00")},
			duration:  120,
			wantStart: "07:00",
			wantEnd:   "09:00",
		},
		{
			name:      "below latest",
			placement: Below,
			day:       []booking.Booking{slot("10:00", "12:00"), slot("08:00", "09:00")},
			duration:  60,
			wantStart: "13:00",
			wantEnd:   "14:00",
		},
		{
			name:      "above runs past midnight",
			placement: Above,
			day:       []booking.Booking{slot("02:00", "03:00")},
			duration:  90,
			wantErr:   ErrNoRoom,
		},
		{
			name:      "below runs past midnight",
			placement: Below,
			day:       []booking.Booking{slot("20:00", "22:00")},
			duration:  120,
			wantErr:   ErrNoRoom,
		},
		{
			name:      "above to the first minute",
			placement: Above,
			day:       []booking.Booking{slot("03:00", "04:00")},
			duration:  120,
			wantStart: "00:00",
			wantEnd:   "02:00",
		},
		{
			name:      "nothing parsable",
			placement: Below,
			day:       []booking.Booking{slot("x", "y")},
			duration:  60,
			wantErr:   ErrEmptyDay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Place(tt.placement, tt.day, tt.duration)
			if tt.wantErr != nil {
				if err == nil || !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := timeutil.FormatClock(start); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := timeutil.FormatClock(end); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if end-start != tt.duration {
				t.Errorf("duration changed: %d != %d", end-start, tt.duration)
			}
		})
	}
}

func TestParsePlacement(t *testing.T) {
	for in, want := range map[string]Placement{"above": Above, "before": Above, "below": Below, "after": Below} {
		got, err := ParsePlacement(in)
		if err != nil || got != want {
			t.Errorf("ParsePlacement(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePlacement("middle"); err == nil {
		t.Error("expected error for unknown placement")
	}
}
