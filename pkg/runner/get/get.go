// Package get provides the runner that lists bookings by month or day.
package get

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Get prints one month, or one day when Date is set. With neither it shows
// the current month.
type Get struct {
	ShowID bool
	JSON   bool
	Month  string
	Date   string

	Service *app.Service
	Out     io.Writer
}

func (n *Get) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}

	if n.Date != "" {
		if _, err := timeutil.ParseDate(n.Date); err != nil {
			return err
		}
		day := n.Service.Tasks.Day(n.Date)
		if n.JSON {
			return pp.JSON(day)
		}
		pp.Day(n.Date, day)
		return nil
	}

	key := month.KeyOf(n.Service.Tasks.Now())
	if n.Month != "" {
		var err error
		if key, err = month.ParseKey(n.Month); err != nil {
			return err
		}
	}
	meta, ok := n.Service.Tasks.Table().Meta(key)
	if !ok {
		first, last := n.Service.Tasks.Table().Bounds()
		return fmt.Errorf("month %s is outside %s to %s", key, first, last)
	}
	list := n.Service.Tasks.Month(key)
	if n.JSON {
		return pp.JSON(list)
	}
	pp.Month(meta, list)
	return nil
}
