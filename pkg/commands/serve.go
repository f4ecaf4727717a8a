package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agenda as a JSON API",
		Example: `
agenda serve
agenda serve --addr :9090
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				s := serve.Serve{
					Addr:    addr,
					Service: svc,
				}
				if s.Addr == "" {
					s.Addr = svc.Config.Addr
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, defaults to the configured addr.")

	topLevel.AddCommand(cmd)
}
