// Package glyph holds the status marks shown next to bookings.
package glyph

import (
	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/booking"
)

type Glyph struct {
	Symbol  string
	Meaning string
	Attr    color.Attribute
}

// Sprint renders the symbol in its color.
func (g Glyph) Sprint() string {
	return color.New(g.Attr).Sprint(g.Symbol)
}

var (
	Open      = Glyph{Symbol: "·", Meaning: "open", Attr: color.Faint}
	Completed = Glyph{Symbol: "✓", Meaning: "completed", Attr: color.FgGreen}
	Paid      = Glyph{Symbol: "$", Meaning: "paid", Attr: color.FgHiYellow}
)

// DefaultGlyphs lists every mark in the order they appear in a listing.
func DefaultGlyphs() []Glyph {
	return []Glyph{Open, Completed, Paid}
}

// Status is the two column mark for b: completion, then payment.
func Status(b booking.Booking) string {
	s := Open.Sprint()
	if b.Completed {
		s = Completed.Sprint()
	}
	if b.Paid {
		return s + Paid.Sprint()
	}
	return s + " "
}
