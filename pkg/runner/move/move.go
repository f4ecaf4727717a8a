// Package move provides the runners for moving, copying, repeating and
// undoing bookings.
package move

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/printers"
	"tableflip.dev/agenda/pkg/recurrence"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/timeutil"
)

// ErrCanceled is returned when the placement prompt is dismissed.
var ErrCanceled = errors.New("move canceled")

// Prompt asks where to place a booking among neighbors. ok is false when the
// user cancels.
type Prompt func(date string, neighbors []booking.Booking) (p reposition.Placement, ok bool, err error)

// Move drops a booking on another date. A busy date uses Placement, or asks
// Prompt when Placement is empty.
type Move struct {
	ID        string
	Date      string
	Placement reposition.Placement
	Prompt    Prompt
	JSON      bool

	Service *app.Service
	Out     io.Writer
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not move, no service")
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	moves := n.Service.Moves

	id, err := n.Service.Find(n.ID)
	if err != nil {
		return err
	}
	if err := moves.Begin(id); err != nil {
		return err
	}
	out, err := moves.Drop(ctx, n.Date)
	if err != nil {
		return err
	}

	if out.NeedsPlacement {
		p := n.Placement
		if p == "" {
			if n.Prompt == nil {
				moves.Cancel()
				return fmt.Errorf("%s already has bookings, choose --above or --below", n.Date)
			}
			if !n.JSON {
				pp.Neighbors(n.Date, out.Neighbors)
			}
			var ok bool
			p, ok, err = n.Prompt(n.Date, out.Neighbors)
			if err != nil || !ok {
				moves.Cancel()
				if err != nil {
					return err
				}
				return ErrCanceled
			}
		}
		if out, err = moves.Choose(ctx, p); err != nil {
			return err
		}
	}

	if n.JSON {
		return pp.JSON(out)
	}
	pp.Moved(out, timeutil.FormatWindow(n.Service.UndoWindow))
	if out.Moved {
		pp.Day(out.To.Date, n.Service.Tasks.Day(out.To.Date))
	}
	return nil
}

// Copy duplicates every booking of From onto To.
type Copy struct {
	From string
	To   string

	Service *app.Service
	Out     io.Writer
}

func (n *Copy) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not copy, no service")
	}
	if _, err := timeutil.ParseDate(n.From); err != nil {
		return err
	}
	drafts, err := recurrence.CopyDay(n.Service.Tasks.Day(n.From), n.To)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("no bookings on %s", n.From)
	}
	return batch(ctx, n.Service, n.Out, drafts)
}

// Recur creates Draft on every date Rule matches.
type Recur struct {
	Draft booking.Draft
	Rule  recurrence.Rule

	Service *app.Service
	Out     io.Writer
}

func (n *Recur) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not repeat, no service")
	}
	drafts, err := recurrence.Expand(n.Draft, n.Rule, n.Service.Tasks.Table())
	if err != nil {
		return err
	}
	return batch(ctx, n.Service, n.Out, drafts)
}

// batch creates drafts and records them for undo. Partial failures still
// leave the created ones undoable.
func batch(ctx context.Context, svc *app.Service, out io.Writer, drafts []booking.Draft) error {
	ids, err := svc.Tasks.CreateBatch(ctx, drafts)
	if rerr := svc.Moves.RecordCopy(ids); rerr != nil {
		err = errors.Join(err, rerr)
	}
	pp := printers.PrettyPrint{ShowID: true, Out: out}
	if len(ids) > 0 {
		pp.Notice("Created %d of %d bookings. Undo within %s.", len(ids), len(drafts), timeutil.FormatWindow(svc.UndoWindow))
	}
	return err
}

// Undo reverts the last move or copy.
type Undo struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Undo) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not undo, no service")
	}
	pp := printers.PrettyPrint{Out: n.Out}
	rec, _ := n.Service.Moves.Pending()
	undone, err := n.Service.Moves.Undo(ctx)
	if err != nil {
		return err
	}
	if !undone {
		return errors.New("nothing to undo")
	}
	switch rec.Kind {
	case reposition.KindMove:
		pp.Notice("Moved back to %s %s-%s.", rec.From.Date, rec.From.StartTime, rec.From.EndTime)
	case reposition.KindCopy:
		pp.Notice("Removed %d copied bookings.", len(rec.IDs))
	default:
		pp.Notice("Undone.")
	}
	return nil
}
