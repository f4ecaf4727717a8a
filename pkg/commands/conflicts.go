package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/runner/check"
)

func addConflicts(topLevel *cobra.Command) {
	var exclude string

	cmd := &cobra.Command{
		Use:     "conflicts <date> <start> <end>",
		Aliases: []string{"check"},
		Short:   "Show bookings a time window would overlap or crowd",
		Example: `
agenda conflicts 2026-3-14 10:00 12:00
agenda conflicts tomorrow 10:00 12:00 --exclude 3f2a
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				date, err := options.ParseOn(args[0], svc.Tasks.Now())
				if err != nil {
					return err
				}
				s := check.Check{
					Candidate: conflict.Candidate{
						Date:      date,
						StartTime: args[1],
						EndTime:   args[2],
						ExcludeID: exclude,
					},
					JSON:    output.JSON,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "Ignore this booking, for checking an edit.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
