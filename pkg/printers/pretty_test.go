package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/month"
)

func init() {
	color.NoColor = true
}

func TestDaysInAndStartDay(t *testing.T) {
	tests := []struct {
		then  time.Time
		days  int
		start time.Weekday
	}{
		{time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), 28, time.Sunday},
		{time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 29, time.Thursday},
		{time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), 31, time.Sunday},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.then); got != tt.days {
			t.Errorf("DaysIn(%s) = %d, want %d", tt.then.Format("2006-01"), got, tt.days)
		}
		if got := StartDay(tt.then); got != tt.start {
			t.Errorf("StartDay(%s) = %s, want %s", tt.then.Format("2006-01"), got, tt.start)
		}
	}
}

func TestMonthListsBookings(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowID: true}
	meta, _ := month.Default(2026).Meta("2026-03")

	pp.Month(meta, []booking.Booking{
		{ID: "a1", Date: "2026-03-14", StartTime: "09:00", EndTime: "11:00", Client: "Ana", Price: "40.00", Completed: true, Paid: true},
	})

	out := buf.String()
	for _, want := range []string{"March 2026 - 1 booking", "March", "a1", "2026-03-14", "09:00-11:00", "Ana", "40.00", "✓$"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConflicts(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Conflicts(nil)
	if !strings.Contains(buf.String(), "No conflicts.") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	pp.Conflicts([]conflict.Conflict{{Kind: conflict.Overlap, Booking: booking.Booking{Client: "Bo", StartTime: "10:00", EndTime: "11:00"}}})
	if !strings.Contains(buf.String(), "overlap") || !strings.Contains(buf.String(), "Bo") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
