// Package conflict finds same-day bookings that collide with a candidate
// time window.
package conflict

import (
	"fmt"
	"time"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

// DefaultMinGap is the spacing below which adjacent bookings are flagged.
const DefaultMinGap = 30 * time.Minute

// Kind classifies a conflict.
type Kind string

const (
	// Overlap means the two windows share time.
	Overlap Kind = "overlap"
	// Close means the windows are disjoint but nearer than the minimum gap.
	Close Kind = "close"
)

// Candidate is the window being checked.
type Candidate struct {
	Date      string
	StartTime string
	EndTime   string
	// ExcludeID skips the booking being edited.
	ExcludeID string
}

// Conflict pairs an existing booking with its classification.
type Conflict struct {
	Kind    Kind            `json:"kind"`
	Booking booking.Booking `json:"booking"`
	// Gap is the free time between the windows; zero for overlaps.
	Gap time.Duration `json:"gap"`
}

func (c Conflict) String() string {
	if c.Kind == Overlap {
		return fmt.Sprintf("overlaps %s %s-%s", c.Booking.Client, c.Booking.StartTime, c.Booking.EndTime)
	}
	return fmt.Sprintf("only %s from %s %s-%s", timeutil.FormatWindow(c.Gap), c.Booking.Client, c.Booking.StartTime, c.Booking.EndTime)
}

// Detect classifies every booking in day against the candidate. Results keep
// the input order. Bookings on other dates, the excluded id and rows with
// unreadable times are skipped. A non-positive minGap uses DefaultMinGap.
func Detect(c Candidate, day []booking.Booking, minGap time.Duration) ([]Conflict, error) {
	if err := timeutil.ValidateTimeRange(c.StartTime, c.EndTime); err != nil {
		return nil, err
	}
	if minGap <= 0 {
		minGap = DefaultMinGap
	}
	cs, _ := timeutil.ParseClock(c.StartTime)
	ce, _ := timeutil.ParseClock(c.EndTime)
	limit := int(minGap / time.Minute)

	var out []Conflict
	for _, existing := range day {
		if existing.Date != c.Date {
			continue
		}
		if c.ExcludeID != "" && existing.ID == c.ExcludeID {
			continue
		}
		es, err := timeutil.ParseClock(existing.StartTime)
		if err != nil {
			continue
		}
		ee, err := timeutil.ParseClock(existing.EndTime)
		if err != nil {
			continue
		}

		if cs < ee && ce > es {
			out = append(out, Conflict{Kind: Overlap, Booking: existing})
			continue
		}

		gap := -1
		switch {
		case cs >= ee:
			gap = cs - ee
		case es >= ce:
			gap = es - ce
		}
		if gap >= 0 && gap < limit {
			out = append(out, Conflict{Kind: Close, Booking: existing, Gap: time.Duration(gap) * time.Minute})
		}
	}
	return out, nil
}

// HasOverlap reports whether any conflict is a true overlap.
func HasOverlap(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Kind == Overlap {
			return true
		}
	}
	return false
}
