package commands

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/recurrence"
	"tableflip.dev/agenda/pkg/runner/move"
	"tableflip.dev/agenda/pkg/snake"
)

func addMove(topLevel *cobra.Command) {
	po := &options.PlacementOptions{}

	cmd := &cobra.Command{
		Use:     "move <booking id> <date>",
		Aliases: []string{"mv"},
		Short:   "Move a booking to another day",
		Long: `Move a booking to another day. An empty day keeps the booking's times.
On a busy day the booking goes one hour before the first booking (--above)
or one hour after the last (--below). Without either flag a terminal asks.`,
		Example: `
agenda move 3f2a 2026-3-20
agenda move 3f2a tomorrow --below
`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: idCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				date, err := options.ParseOn(args[1], svc.Tasks.Now())
				if err != nil {
					return err
				}
				p, err := po.Placement()
				if err != nil {
					return err
				}
				s := move.Move{
					ID:        args[0],
					Date:      date,
					Placement: p,
					JSON:      output.JSON,
					Service:   svc,
				}
				if p == "" && !output.JSON && isatty.IsTerminal(stdinFd()) {
					s.Prompt = snake.PlacementPrompt(cmd)
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddPlacementArgs(cmd, po)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addCopy(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "copy <from date> <to date>",
		Aliases: []string{"cp"},
		Short:   "Copy every booking of a day onto another day",
		Example: `
agenda copy 2026-3-14 2026-3-21
agenda copy today tomorrow
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				now := svc.Tasks.Now()
				from, err := options.ParseOn(args[0], now)
				if err != nil {
					return err
				}
				to, err := options.ParseOn(args[1], now)
				if err != nil {
					return err
				}
				s := move.Copy{
					From:    from,
					To:      to,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addRecur(topLevel *cobra.Command) {
	bo := &options.BookingOptions{}
	var (
		weekdays string
		every    int
		until    string
	)

	cmd := &cobra.Command{
		Use:     "recur",
		Aliases: []string{"repeat"},
		Short:   "Add a weekly series of bookings",
		Example: `
agenda recur --on 2026-3-2 -s 09:00 -e 12:00 -c "Maria Silva" --rate 25
agenda recur --on 2026-3-2 -s 09:00 -e 12:00 -c Joana --weekdays mon,thu --every 2 --until 2026-6-30
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				now := svc.Tasks.Now()
				d, err := bo.Draft(now)
				if err != nil {
					return err
				}
				days, err := recurrence.ParseWeekdays(weekdays)
				if err != nil {
					return err
				}
				rule := recurrence.Rule{Weekdays: days, Interval: every}
				if until != "" {
					if rule.Until, err = options.ParseOn(until, now); err != nil {
						return err
					}
				}
				s := move.Recur{
					Draft:   d,
					Rule:    rule,
					Service: svc,
				}
				return s.Do(ctx)
			})
		},
	}

	options.AddBookingArgs(cmd, bo)
	cmd.Flags().StringVar(&weekdays, "weekdays", "", "Comma separated weekdays, like mon,wed. Defaults to the weekday of --on.")
	cmd.Flags().IntVar(&every, "every", 1, "Repeat every this many weeks.")
	cmd.Flags().StringVar(&until, "until", "", "Last date of the series, defaults to the end of the month window.")

	topLevel.AddCommand(cmd)
}

func addUndo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last move or copy",
		Example: `
agenda undo
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc *app.Service) error {
				s := move.Undo{Service: svc}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func stdinFd() uintptr {
	return os.Stdin.Fd()
}
