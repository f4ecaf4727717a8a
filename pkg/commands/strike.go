package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/runner/strike"
)

func addStrike(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <booking id>...",
		Aliases: []string{"delete", "strike"},
		Short:   "Delete bookings",
		Example: `
agenda rm 3f2a
agenda rm 3f2a 91bc
`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: idCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := strike.Strike{
					IDs:     args,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
