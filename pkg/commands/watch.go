package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes made by other clients",
		Example: `
agenda watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				s := watch.Watch{Service: svc}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
