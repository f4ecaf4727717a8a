// Package collections contains the runner listing the supported months.
package collections

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/printers"
)

type summary struct {
	month.Meta
	Count int `json:"count"`
}

// Months lists the month window with counts and totals.
type Months struct {
	JSON bool

	Service *app.Service
	Out     io.Writer
}

func (m *Months) Do(_ context.Context) error {
	if m.Service == nil {
		return errors.New("can not list months, no service")
	}
	pp := printers.PrettyPrint{Out: m.Out}
	snap := m.Service.Tasks.Snapshot()
	metas := m.Service.Tasks.Months()
	if m.JSON {
		out := make([]summary, 0, len(metas))
		for _, meta := range metas {
			out = append(out, summary{Meta: meta, Count: len(snap[meta.Key])})
		}
		return pp.JSON(out)
	}
	pp.Months(metas, snap)
	return nil
}
