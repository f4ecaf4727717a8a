package commands

import (
	"context"
	"errors"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/runner/add"
	"tableflip.dev/agenda/pkg/snake"
)

func addAdd(topLevel *cobra.Command) {
	bo := &options.BookingOptions{}
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a booking",
		Example: `
agenda add --on 2026-3-14 -s 09:00 -e 12:00 -c "Maria Silva" --rate 25
agenda add --on tomorrow -s 14:00 -e 16:30 -c Joana --address "Rua A, 12" --price 80
agenda add -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				d, err := bo.Draft(svc.Tasks.Now())
				if err != nil {
					return err
				}
				if i.Interactive {
					if !isatty.IsTerminal(stdinFd()) {
						return errors.New("--interactive needs a terminal")
					}
					if err := snake.PromptDraft(cmd, &d); err != nil {
						return err
					}
				}
				s := add.Add{
					Draft:   d,
					Force:   bo.Force,
					JSON:    output.JSON,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddBookingArgs(cmd, bo)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command) {
	bo := &options.BookingOptions{}

	cmd := &cobra.Command{
		Use:   "edit <booking id>",
		Short: "Change a booking",
		Long: `Change the fields given as flags and keep the rest. Changing the times or
the rate recomputes the price unless --price is given too.`,
		Example: `
agenda edit 3f2a --on 2026-3-15
agenda edit 3f2a -s 10:00 -e 12:00
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: idCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := add.Edit{
					ID: args[0],
					Change: func(d *booking.Draft) error {
						return bo.Apply(cmd, d, svc.Tasks.Now())
					},
					Force:   bo.Force,
					JSON:    output.JSON,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddBookingArgs(cmd, bo)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
