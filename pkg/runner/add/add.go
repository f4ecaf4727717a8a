// Package add provides the runners that create and edit bookings.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/printers"
)

// ErrOverlap stops a write that would overlap another booking unless forced.
var ErrOverlap = errors.New("booking overlaps another booking on the same day, use --force to save anyway")

// Add creates a booking after checking its day for conflicts.
type Add struct {
	Draft booking.Draft
	Force bool
	JSON  bool

	Service *app.Service
	Out     io.Writer
}

// Do runs the conflict check, creates the booking and prints its day.
func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}

	if err := check(&pp, n.Service, n.Draft, "", n.Force, n.JSON); err != nil {
		return err
	}
	b, err := n.Service.Tasks.Create(ctx, n.Draft)
	if err != nil {
		return err
	}
	if n.JSON {
		return pp.JSON(b)
	}
	pp.Day(b.Date, n.Service.Tasks.Day(b.Date))
	return nil
}

// Edit changes an existing booking. Change receives the current fields and
// edits them in place; an error aborts before anything is saved.
type Edit struct {
	ID     string
	Change func(*booking.Draft) error
	Force  bool
	JSON   bool

	Service *app.Service
	Out     io.Writer
}

// Do applies the change and prints the booking's new day.
func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}

	id, err := n.Service.Find(n.ID)
	if err != nil {
		return err
	}
	cur, _ := n.Service.Tasks.Find(id)
	d := cur.Draft()
	if n.Change != nil {
		if err := n.Change(&d); err != nil {
			return err
		}
	}
	if err := check(&pp, n.Service, d, id, n.Force, n.JSON); err != nil {
		return err
	}
	if _, err := n.Service.Tasks.Update(ctx, id, d); err != nil {
		return err
	}
	b, _ := n.Service.Tasks.Find(id)
	if n.JSON {
		return pp.JSON(b)
	}
	pp.Day(b.Date, n.Service.Tasks.Day(b.Date))
	return nil
}

func check(pp *printers.PrettyPrint, svc *app.Service, d booking.Draft, exclude string, force, quiet bool) error {
	found, err := svc.Conflicts(conflict.Candidate{
		Date:      d.Date,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		ExcludeID: exclude,
	})
	if err != nil {
		return err
	}
	if len(found) > 0 && !quiet {
		pp.Conflicts(found)
		pp.NewLine()
	}
	if conflict.HasOverlap(found) && !force {
		return ErrOverlap
	}
	return nil
}
