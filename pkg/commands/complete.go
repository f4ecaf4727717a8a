package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	ro := &options.RoleOptions{}

	cmd := &cobra.Command{
		Use:     "done <booking id>",
		Aliases: []string{"complete", "completed"},
		Short:   "Toggle whether a booking is done",
		Example: `
agenda done 3f2a
agenda done 3f2a --role owner
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := complete.Complete{
					ID:      args[0],
					Role:    ro.Role,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddRoleArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}

func addPaid(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "paid <booking id>",
		Aliases: []string{"pago"},
		Short:   "Toggle whether a booking is paid",
		Example: `
agenda paid 3f2a
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := complete.Payment{
					ID:      args[0],
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
