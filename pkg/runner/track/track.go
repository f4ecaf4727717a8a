// Package track provides the runner that summarizes earnings.
package track

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
)

// Report totals prices by month between Since and Until.
type Report struct {
	Since string
	Until string
	JSON  bool

	Service *app.Service
	Out     io.Writer
}

func (n *Report) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}
	res, err := n.Service.Report(n.Since, n.Until)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		return pp.JSON(res)
	}

	pp.TitleWithCount(fmt.Sprintf("%s to %s", res.Since, res.Until), res.Count)
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Month"), bold.Sprint("Bookings"), bold.Sprint("Done"), bold.Sprint("Total"), bold.Sprint("Paid"), bold.Sprint("Owed"))
	for _, s := range res.Sections {
		tbl.AddRow(s.Month.Label, len(s.Bookings), s.Completed, s.Total, s.Paid, s.Outstanding)
	}
	tbl.AddRow(bold.Sprint("Total"), res.Count, "", bold.Sprint(res.Total), res.Paid, res.Outstanding)
	_, _ = fmt.Fprintln(outOf(n.Out), tbl)
	return nil
}

func outOf(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}
