package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/runner/get"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list [month]",
		Aliases: []string{"ls", "get"},
		Short:   "List the bookings of a month",
		Example: `
agenda list
agenda list 2026-03 --show-id
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: monthCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := get.Get{
					ShowID:  io.ShowID,
					JSON:    output.JSON,
					Service: svc,
				}
				if len(args) > 0 {
					s.Month = args[0]
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addDay(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "day [date]",
		Short: "List the bookings of a day",
		Example: `
agenda day
agenda day tomorrow
agenda day 3/14 --show-id
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				raw := "today"
				if len(args) > 0 {
					raw = args[0]
				}
				date, err := options.ParseOn(raw, svc.Tasks.Now())
				if err != nil {
					return err
				}
				s := get.Get{
					ShowID:  io.ShowID,
					JSON:    output.JSON,
					Date:    date,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func monthWindow(anchorYear int) []string {
	keys := month.Default(anchorYear).Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, string(k))
	}
	return out
}
