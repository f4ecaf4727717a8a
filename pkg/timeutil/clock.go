package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// LayoutDate is the calendar date layout used for bookings.
	LayoutDate = "2006-01-02"

	// MinutesPerDay bounds wall-clock values.
	MinutesPerDay = 24 * 60
)

// ErrInvalidTimeWindow is returned when a time window is empty or not
// strictly increasing.
var ErrInvalidTimeWindow = errors.New("invalid time window")

// ParseClock parses a wall-clock "HH:MM" value into minutes since midnight.
// "24:00" is not accepted; the latest representable value is "23:59".
func ParseClock(v string) (int, error) {
	v = strings.TrimSpace(v)
	hh, mm, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("timeutil: invalid clock %q", v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("timeutil: invalid hour in %q", v)
	}
	// Accept "HH:MM:SS" from SQL time columns.
	if sec, _, found := strings.Cut(mm, ":"); found {
		mm = sec
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("timeutil: invalid minute in %q", v)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidClock reports whether minutes falls on the same day.
func ValidClock(minutes int) bool {
	return minutes >= 0 && minutes < MinutesPerDay
}

// ValidateTimeRange fails when either bound is empty or when end is not
// strictly after start. The returned error wraps ErrInvalidTimeWindow.
func ValidateTimeRange(start, end string) error {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return fmt.Errorf("%w: start and end times are required", ErrInvalidTimeWindow)
	}
	s, err := ParseClock(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	if e <= s {
		return fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidTimeWindow, end, start)
	}
	return nil
}

// Span returns the minutes between start and end, which may be negative.
func Span(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// ParseDate parses a "YYYY-MM-DD" date as midnight UTC.
func ParseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutDate, strings.TrimSpace(v), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q", v)
	}
	return t, nil
}

// FormatDate renders the UTC calendar date of t.
func FormatDate(t time.Time) string {
	return t.UTC().Format(LayoutDate)
}
