// Package watch provides the runner that follows backend changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/tasks"
)

// Watch reloads the store whenever the backend changes and prints each
// change until ctx is done.
type Watch struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not watch, no service")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Service.Watch(ctx)
	}()

	f := color.New(color.Faint)
	_, _ = f.Fprintf(out, "watching %d bookings, ctrl-c to stop\n", n.Service.Tasks.Len())
	events := n.Service.Tasks.Events()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case ev := <-events:
			n.print(out, ev)
		}
	}
}

func (n *Watch) print(out io.Writer, ev tasks.Event) {
	ts := color.New(color.Faint).Sprint(n.Service.Tasks.Now().Local().Format("15:04:05"))
	if ev.Action == tasks.ChangeReload {
		_, _ = fmt.Fprintf(out, "%s reloaded, %d bookings\n", ts, n.Service.Tasks.Len())
		return
	}
	b, ok := n.Service.Tasks.Find(ev.ID)
	if !ok {
		_, _ = fmt.Fprintf(out, "%s %s %s\n", ts, ev.Action, ev.ID)
		return
	}
	_, _ = fmt.Fprintf(out, "%s %s %s\n", ts, ev.Action, b.String())
}
