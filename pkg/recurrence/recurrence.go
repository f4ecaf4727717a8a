// Package recurrence generates booking drafts for repeating schedules and
// for copying a day's bookings elsewhere.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/timeutil"
)

var (
	// ErrEmptyRange is returned when a rule yields no dates.
	ErrEmptyRange = errors.New("recurrence: no dates in range")
	// ErrInvalidDate wraps a malformed start, until or target date.
	ErrInvalidDate = errors.New("recurrence: invalid date")
)

// Rule repeats a draft on the given weekdays every Interval weeks until Until
// (inclusive). Empty Weekdays means the weekday of the draft's date; empty
// Until means the end of the month window.
type Rule struct {
	Weekdays []time.Weekday `json:"weekdays"`
	Interval int            `json:"interval"`
	Until    string         `json:"until,omitempty"`
}

// Expand returns one draft per matching date from d.Date through the rule's
// end, clipped to table. The time window is validated once up front.
func Expand(d booking.Draft, r Rule, table *month.Table) ([]booking.Draft, error) {
	if err := timeutil.ValidateTimeRange(d.StartTime, d.EndTime); err != nil {
		return nil, err
	}
	start, err := timeutil.ParseDate(d.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	_, windowEnd := table.Bounds()
	last, _ := timeutil.ParseDate(windowEnd)
	if r.Until != "" {
		until, err := timeutil.ParseDate(r.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
		if until.Before(start) {
			return nil, fmt.Errorf("%w: until %s is before %s", ErrInvalidDate, r.Until, d.Date)
		}
		if until.Before(last) {
			last = until
		}
	}

	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	days := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		days[wd] = true
	}
	if len(days) == 0 {
		days[start.Weekday()] = true
	}

	// Weeks are counted from the Sunday on or before the first date.
	weekStart := start.AddDate(0, 0, -int(start.Weekday()))
	var out []booking.Draft
	for day := start; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		week := int(day.Sub(weekStart).Hours() / (24 * 7))
		if week%interval != 0 {
			continue
		}
		date := timeutil.FormatDate(day)
		if !table.Contains(date) {
			continue
		}
		next := d
		next.Date = date
		out = append(out, next)
	}
	if len(out) == 0 {
		return nil, ErrEmptyRange
	}
	return out, nil
}

// CopyDay returns drafts of day's bookings moved to the date to. Status and
// payment are not carried over.
func CopyDay(day []booking.Booking, to string) ([]booking.Draft, error) {
	if _, err := timeutil.ParseDate(to); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	out := make([]booking.Draft, 0, len(day))
	for _, b := range day {
		d := b.Draft()
		d.Date = to
		out = append(out, d)
	}
	return out, nil
}

// ParseWeekdays reads a comma separated list such as "mon,wed,fri".
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		wd, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("recurrence: unknown weekday %q", part)
		}
		out = append(out, wd)
	}
	return out, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}
