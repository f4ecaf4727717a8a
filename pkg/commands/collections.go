package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/collections"
)

func addMonths(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "months",
		Short: "List the supported months with totals",
		Example: `
agenda months
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := collections.Months{
					JSON:    output.JSON,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
