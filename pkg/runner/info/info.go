// Package info provides the runner describing the configured backend.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/agenda/pkg/app"
)

type Info struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(_ context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("AGENDA_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "AGENDA_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "AGENDA_CONFIG_PATH env var not set")
	}

	if n.Service == nil {
		return fmt.Errorf("failed to open the booking store")
	}
	cfg := n.Service.Config
	first, last := n.Service.Tasks.Table().Bounds()

	_, _ = fmt.Fprintln(out, "Config.path:    ", cfg.BasePath())
	_, _ = fmt.Fprintln(out, "Config.backend: ", cfg.Backend())
	_, _ = fmt.Fprintln(out, "Journal:        ", cfg.JournalPath())
	_, _ = fmt.Fprintf(out, "Months:          %s to %s\n", first, last)
	_, _ = fmt.Fprintf(out, "Bookings:        %d\n", n.Service.Tasks.Len())
	if rec, ok := n.Service.Moves.Pending(); ok {
		_, _ = fmt.Fprintf(out, "Undo:            %s pending until %s\n", rec.Kind, rec.ExpiresAt.Local().Format("15:04:05"))
	}
	return nil
}
