package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/track"
	"tableflip.dev/agenda/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	var since, until string

	cmd := &cobra.Command{
		Use:     "totals",
		Aliases: []string{"earnings"},
		Short:   "Total prices by month",
		Example: `
agenda totals
agenda totals --since 2026-1-1 --until 2026-3-31
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				now := svc.Tasks.Now()
				first := timeutil.FormatDate(now.AddDate(0, 0, 1-now.Day()))
				last := timeutil.FormatDate(now.AddDate(0, 1, -now.Day()))
				var err error
				if since != "" {
					if first, err = options.ParseOn(since, now); err != nil {
						return err
					}
				}
				if until != "" {
					if last, err = options.ParseOn(until, now); err != nil {
						return err
					}
				}
				s := track.Report{
					Since:   first,
					Until:   last,
					JSON:    output.JSON,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "First date, defaults to the first of this month.")
	cmd.Flags().StringVar(&until, "until", "", "Last date, defaults to the end of this month.")
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
