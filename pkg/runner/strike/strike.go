// Package strike provides the runner that deletes bookings.
package strike

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
)

// Strike deletes one or more bookings.
type Strike struct {
	IDs []string

	Service *app.Service
	Out     io.Writer
}

// Do deletes every id, continuing past failures, and reprints each touched
// day once.
func (n *Strike) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not strike, no service")
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}

	var (
		errs  []error
		dates []string
		seen  = map[string]bool{}
	)
	for _, raw := range n.IDs {
		id, err := n.Service.Find(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cur, _ := n.Service.Tasks.Find(id)
		if err := n.Service.Tasks.Delete(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		if !seen[cur.Date] {
			seen[cur.Date] = true
			dates = append(dates, cur.Date)
		}
	}
	for _, d := range dates {
		pp.Day(d, n.Service.Tasks.Day(d))
	}
	return errors.Join(errs...)
}
