// Package check provides the runner that reports scheduling conflicts.
package check

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/printers"
)

// Check lists the bookings a candidate window overlaps or crowds.
type Check struct {
	Candidate conflict.Candidate
	JSON      bool

	Service *app.Service
	Out     io.Writer
}

func (n *Check) Do(_ context.Context) error {
	if n.Service == nil {
		return errors.New("can not check, no service")
	}
	found, err := n.Service.Conflicts(n.Candidate)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	if n.JSON {
		if found == nil {
			found = []conflict.Conflict{}
		}
		return pp.JSON(found)
	}
	pp.Conflicts(found)
	return nil
}
