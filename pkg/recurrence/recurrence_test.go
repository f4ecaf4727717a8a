package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
)

func base(date string) booking.Draft {
	return booking.Draft{Date: date, StartTime: "09:00", EndTime: "12:00", Client: "Ana", PricePerHour: "25"}
}

func dates(drafts []booking.Draft) []string {
	out := make([]string, len(drafts))
	for i, d := range drafts {
		out[i] = d.Date
	}
	return out
}

func TestExpandWeekly(t *testing.T) {
	// 2026-03-02 is a Monday.
	got, err := Expand(base("2026-03-02"), Rule{Until: "2026-03-23"}, month.Default(2026))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-02", "2026-03-09", "2026-03-16", "2026-03-23"}, dates(got))
	assert.Equal(t, "Ana", got[3].Client)
}

func TestExpandWeekdaysAndInterval(t *testing.T) {
	rule := Rule{Weekdays: []time.Weekday{time.Monday, time.Thursday}, Interval: 2, Until: "2026-03-19"}
	got, err := Expand(base("2026-03-02"), rule, month.Default(2026))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-02", "2026-03-05", "2026-03-16", "2026-03-19"}, dates(got))
}

func TestExpandClipsToWindow(t *testing.T) {
	got, err := Expand(base("2027-01-25"), Rule{}, month.Default(2026))
	require.NoError(t, err)
	assert.Equal(t, []string{"2027-01-25"}, dates(got))
}

func TestExpandValidatesWindowFirst(t *testing.T) {
	d := base("2026-03-02")
	d.EndTime = "08:00"
	_, err := Expand(d, Rule{}, month.Default(2026))
	assert.ErrorIs(t, err, booking.ErrInvalidTimeWindow)
}

func TestExpandErrors(t *testing.T) {
	_, err := Expand(base("2026-03-10"), Rule{Until: "2026-03-01"}, month.Default(2026))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Expand(base("2026-3-x"), Rule{}, month.Default(2026))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Expand(base("2026-03-10"), Rule{Until: "later"}, month.Default(2026))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Expand(base("2030-03-10"), Rule{}, month.Default(2026))
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestCopyDayResetsStatus(t *testing.T) {
	b := booking.New(base("2026-03-02"))
	b.ID = "a"
	booking.CompletionPatch(true, "admin").Apply(b)
	booking.PaymentPatch(true, time.Now()).Apply(b)

	got, err := CopyDay([]booking.Booking{*b}, "2026-03-04")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-03-04", got[0].Date)
	assert.Equal(t, b.StartTime, got[0].StartTime)
	assert.Equal(t, b.Price, got[0].Price)

	_, err = CopyDay(nil, "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseWeekdays(t *testing.T) {
	got, err := ParseWeekdays("mon, Wednesday,fri")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, got)

	_, err = ParseWeekdays("funday")
	assert.Error(t, err)
}
