package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(agenda completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(agenda completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// idCompletions offers booking ids with their summary as description.
func idCompletions(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	svc, err := app.Open(context.Background(), nil, app.Options{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer svc.Close()

	var out []string
	for _, list := range svc.Tasks.Snapshot() {
		for _, b := range list {
			if strings.HasPrefix(b.ID, toComplete) {
				out = append(out, b.ID+"\t"+b.String())
			}
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// monthCompletions offers the keys of the configured month window.
func monthCompletions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, key := range monthWindow(cfg.AnchorYear) {
		if strings.HasPrefix(key, toComplete) {
			out = append(out, key)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
