// Package month defines the fixed calendar window bookings are bucketed into.
package month

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"tableflip.dev/agenda/pkg/timeutil"
)

// Key names one month bucket, formatted "2006-01".
type Key string

const (
	keyFormat   = "2006-01"
	labelFormat = "January 2006"
)

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Palette is cycled over the window to tag each month with a color.
var Palette = []string{
	"blue", "green", "purple", "orange", "pink", "teal",
	"indigo", "red", "cyan", "amber", "lime", "rose",
}

// Meta describes one supported calendar month.
type Meta struct {
	Key   Key    `json:"key"`
	Year  int    `json:"year"`
	Month int    `json:"month"` // zero-based, January is 0
	Days  int    `json:"days"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// First returns midnight UTC of the first day of the month.
func (m Meta) First() time.Time {
	return time.Date(m.Year, time.Month(m.Month+1), 1, 0, 0, 0, 0, time.UTC)
}

// Table is an immutable, ordered list of supported months.
type Table struct {
	metas []Meta
	index map[Key]int
}

// NewTable builds count consecutive months starting at the month of first.
func NewTable(first time.Time, count int) (*Table, error) {
	if count <= 0 {
		return nil, errors.New("month: window must hold at least one month")
	}
	start := time.Date(first.UTC().Year(), first.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	t := &Table{
		metas: make([]Meta, 0, count),
		index: make(map[Key]int, count),
	}
	for i := 0; i < count; i++ {
		m := start.AddDate(0, i, 0)
		meta := Meta{
			Key:   Key(m.Format(keyFormat)),
			Year:  m.Year(),
			Month: int(m.Month()) - 1,
			Days:  m.AddDate(0, 1, -1).Day(),
			Label: m.Format(labelFormat),
			Color: Palette[i%len(Palette)],
		}
		t.index[meta.Key] = len(t.metas)
		t.metas = append(t.metas, meta)
	}
	return t, nil
}

// Default returns the standard window for anchorYear: December of the
// previous year, every month of anchorYear and January of the next year.
func Default(anchorYear int) *Table {
	t, err := NewTable(time.Date(anchorYear-1, time.December, 1, 0, 0, 0, 0, time.UTC), 14)
	if err != nil {
		panic(err)
	}
	return t
}

// Keys lists bucket keys in calendar order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.metas))
	for i, m := range t.metas {
		keys[i] = m.Key
	}
	return keys
}

// Metas lists every month in calendar order.
func (t *Table) Metas() []Meta {
	return append([]Meta(nil), t.metas...)
}

// Meta looks up a month by key.
func (t *Table) Meta(key Key) (Meta, bool) {
	idx, ok := t.index[key]
	if !ok {
		return Meta{}, false
	}
	return t.metas[idx], true
}

// Resolve returns the bucket whose year and month match the date. It compares
// UTC components so the answer never depends on the local zone.
func (t *Table) Resolve(date time.Time) (Key, bool) {
	d := date.UTC()
	for _, m := range t.metas {
		if m.Year == d.Year() && m.Month == int(d.Month())-1 {
			return m.Key, true
		}
	}
	return "", false
}

// ResolveString parses a "YYYY-MM-DD" date and resolves its bucket.
func (t *Table) ResolveString(date string) (Key, bool) {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return "", false
	}
	return t.Resolve(d)
}

// Contains reports whether date falls inside the window.
func (t *Table) Contains(date string) bool {
	_, ok := t.ResolveString(date)
	return ok
}

// Bounds returns the first and last supported calendar dates.
func (t *Table) Bounds() (string, string) {
	first := t.metas[0]
	last := t.metas[len(t.metas)-1]
	return timeutil.FormatDate(first.First()), timeutil.FormatDate(last.First().AddDate(0, 0, last.Days-1))
}

// ParseKey accepts "2026-03" or a label such as "March 2026".
func ParseKey(raw string) (Key, error) {
	if keyPattern.MatchString(raw) {
		if _, err := time.Parse(keyFormat, raw); err == nil {
			return Key(raw), nil
		}
	}
	if m, err := time.Parse(labelFormat, raw); err == nil {
		return Key(m.Format(keyFormat)), nil
	}
	return "", fmt.Errorf("month: unrecognized month %q", raw)
}

// KeyOf returns the bucket key a date would use, inside the window or not.
func KeyOf(date time.Time) Key {
	return Key(date.UTC().Format(keyFormat))
}
