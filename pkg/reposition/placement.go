package reposition

import (
	"errors"
	"fmt"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Gap is the spacing left between a placed booking and its neighbor.
const Gap = 60

var (
	// ErrNoRoom is returned when a placement would leave the day.
	ErrNoRoom = errors.New("reposition: placement does not fit in the day")
	// ErrEmptyDay is returned when there is no neighbor to place against.
	ErrEmptyDay = errors.New("reposition: target day has no bookings")
)

// Placement picks a side of the existing bookings.
type Placement string

const (
	Above Placement = "above"
	Below Placement = "below"
)

// ParsePlacement accepts "above"/"before" and "below"/"after".
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "above", "before":
		return Above, nil
	case "below", "after":
		return Below, nil
	}
	return "", fmt.Errorf("reposition: unknown placement %q", s)
}

// Duration returns the booking's length in minutes.
func Duration(b booking.Booking) (int, error) {
	d, err := b.Duration()
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s-%s", booking.ErrInvalidTimeWindow, b.StartTime, b.EndTime)
	}
	return d, nil
}

// PlaceAbove ends the window one hour before the earliest start in day and
// keeps duration minutes.
func PlaceAbove(day []booking.Booking, duration int) (start, end int, err error) {
	earliest := -1
	for _, b := range day {
		s, err := timeutil.ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		if earliest < 0 || s < earliest {
			earliest = s
		}
	}
	if earliest < 0 {
		return 0, 0, ErrEmptyDay
	}
	end = earliest - Gap
	start = end - duration
	if start < 0 {
		return 0, 0, fmt.Errorf("%w: would start before 00:00", ErrNoRoom)
	}
	return start, end, nil
}

// PlaceBelow starts the window one hour after the latest end in day and keeps
// duration minutes.
func PlaceBelow(day []booking.Booking, duration int) (start, end int, err error) {
	latest := -1
	for _, b := range day {
		e, err := timeutil.ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		if e > latest {
			latest = e
		}
	}
	if latest < 0 {
		return 0, 0, ErrEmptyDay
	}
	start = latest + Gap
	end = start + duration
	if !timeutil.ValidClock(end) {
		return 0, 0, fmt.Errorf("%w: would end after 23:59", ErrNoRoom)
	}
	return start, end, nil
}

// Place dispatches on p.
func Place(p Placement, day []booking.Booking, duration int) (start, end int, err error) {
	switch p {
	case Above:
		return PlaceAbove(day, duration)
	case Below:
		return PlaceBelow(day, duration)
	}
	return 0, 0, fmt.Errorf("reposition: unknown placement %q", p)
}
