package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/commands/options"
	"tableflip.dev/agenda/pkg/notify"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: base.Wrap80("Schedule cleaning bookings by month, move them between days and track payment."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addEdit(topLevel)
	addStrike(topLevel)
	addComplete(topLevel)
	addPaid(topLevel)
	addList(topLevel)
	addDay(topLevel)
	addMonths(topLevel)
	addConflicts(topLevel)
	addMove(topLevel)
	addCopy(topLevel)
	addRecur(topLevel)
	addUndo(topLevel)
	addWatch(topLevel)
	addServe(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addKey(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}

// openService loads the configured backend. Errors are returned to cobra, so
// only informational notices go to the terminal.
func openService(ctx context.Context) (*app.Service, error) {
	sink := notify.NewColorSink(color.Error)
	return app.Open(ctx, nil, app.Options{
		Sink: notify.SinkFunc(func(n notify.Notice) {
			if n.Level != notify.Error && !output.JSON {
				sink.Notify(n)
			}
		}),
	})
}

// run opens the service, hands it to do and closes it afterwards.
func run(cmd *cobra.Command, do func(ctx context.Context, svc *app.Service) error) error {
	cmd.SilenceUsage = true
	ctx := context.Background()
	svc, err := openService(ctx)
	if err != nil {
		return output.HandleError(err)
	}
	defer svc.Close()
	return output.HandleError(do(ctx, svc))
}
