// Package complete provides the runners that flip a booking's status.
package complete

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/printers"
)

// Complete toggles whether a booking is done.
type Complete struct {
	ID   string
	Role string

	Service *app.Service
	Out     io.Writer
}

// Do flips completion and reprints the booking's day.
func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}
	id, err := n.Service.Find(n.ID)
	if err != nil {
		return err
	}
	cur, _ := n.Service.Tasks.Find(id)
	if err := n.Service.Tasks.ToggleCompletion(ctx, id, cur.Completed, n.Service.Role(n.Role)); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.Day(cur.Date, n.Service.Tasks.Day(cur.Date))
	return nil
}

// Payment toggles whether a booking is paid.
type Payment struct {
	ID string

	Service *app.Service
	Out     io.Writer
}

// Do flips payment and reprints the booking's day.
func (n *Payment) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not mark paid, no service")
	}
	id, err := n.Service.Find(n.ID)
	if err != nil {
		return err
	}
	cur, _ := n.Service.Tasks.Find(id)
	if err := n.Service.Tasks.TogglePayment(ctx, id, cur.Paid); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.Day(cur.Date, n.Service.Tasks.Day(cur.Date))
	return nil
}
