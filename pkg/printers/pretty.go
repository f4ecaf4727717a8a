package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/glyph"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/price"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " booking")
	default:
		_, _ = c.Fprintln(pp.out(), " bookings")
	}
}

// Bookings prints one row per booking. withDate adds the date column for
// listings that span more than a day.
func (pp *PrettyPrint) Bookings(bookings []booking.Booking, withDate bool) {
	if len(bookings) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, b := range bookings {
		row := make([]interface{}, 0, 7)
		if pp.ShowID {
			row = append(row, y.Sprint(b.ID))
		}
		if withDate {
			row = append(row, b.Date)
		}
		row = append(row,
			fmt.Sprintf("%s-%s", b.StartTime, b.EndTime),
			glyph.Status(b),
			bold.Sprint(b.Client),
			b.Price,
			b.Address,
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Day prints the bookings of one date.
func (pp *PrettyPrint) Day(date string, bookings []booking.Booking) {
	pp.TitleWithCount(date, len(bookings))
	pp.Bookings(bookings, false)
}

// Month prints a calendar of busy days followed by the month's bookings.
func (pp *PrettyPrint) Month(meta month.Meta, bookings []booking.Booking) {
	pp.TitleWithCount(meta.Label, len(bookings))
	count := make([]int, meta.Days)
	for _, b := range bookings {
		t, err := timeutil.ParseDate(b.Date)
		if err != nil || t.Day() > meta.Days {
			continue
		}
		count[t.Day()-1]++
	}
	pp.PrintMonthCount(meta.First(), count)
	pp.Bookings(bookings, true)
}

// Months lists the supported window with per-month totals.
func (pp *PrettyPrint) Months(metas []month.Meta, snapshot map[month.Key][]booking.Booking) {
	bold := color.New(color.Bold)
	f := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Month"), bold.Sprint("Label"), bold.Sprint("Bookings"), bold.Sprint("Total"), bold.Sprint("Paid"))
	for _, m := range metas {
		rows := snapshot[m.Key]
		var all, paid []string
		for _, b := range rows {
			all = append(all, b.Price)
			if b.Paid {
				paid = append(paid, b.Price)
			}
		}
		count := fmt.Sprint(len(rows))
		if len(rows) == 0 {
			count = f.Sprint(count)
		}
		tbl.AddRow(string(m.Key), m.Label, count, price.Sum(all...), price.Sum(paid...))
	}
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Conflicts prints overlap and spacing warnings.
func (pp *PrettyPrint) Conflicts(conflicts []conflict.Conflict) {
	if len(conflicts) == 0 {
		g := color.New(color.FgGreen)
		_, _ = g.Fprintln(pp.out(), "No conflicts.")
		return
	}
	r := color.New(color.FgRed, color.Bold)
	y := color.New(color.FgYellow)
	for _, c := range conflicts {
		p := y
		if c.Kind == conflict.Overlap {
			p = r
		}
		_, _ = p.Fprintf(pp.out(), "%-8s", c.Kind)
		_, _ = fmt.Fprintln(pp.out(), c.String())
	}
}

// Moved reports a finished move and how long it can be undone.
func (pp *PrettyPrint) Moved(o reposition.Outcome, undo string) {
	if !o.Moved {
		f := color.New(color.Faint)
		_, _ = f.Fprintln(pp.out(), "Nothing moved.")
		return
	}
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(pp.out(), "Moved %s %s-%s to %s %s-%s.",
		o.From.Date, o.From.StartTime, o.From.EndTime,
		bold.Sprint(o.To.Date), o.To.StartTime, o.To.EndTime)
	if undo != "" {
		f := color.New(color.Faint)
		_, _ = f.Fprintf(pp.out(), " Undo within %s.", undo)
	}
	pp.NewLine()
}

// Neighbors prints the bookings a dropped booking must be placed against.
func (pp *PrettyPrint) Neighbors(date string, neighbors []booking.Booking) {
	pp.Title(fmt.Sprintf("%s already has %s", date, plural(len(neighbors), "booking")))
	pp.Bookings(neighbors, false)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Notice prints a one-line success message.
func (pp *PrettyPrint) Notice(format string, args ...interface{}) {
	g := color.New(color.FgGreen)
	_, _ = g.Fprintln(pp.out(), strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// JSON writes v indented.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.out(), string(b))
	return err
}
