// Package snake holds the interactive prompts used by the CLI.
package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/reposition"
)

type choice struct {
	Name      string
	Short     string
	Placement reposition.Placement
}

// PlacementPrompt returns a prompt asking whether a moved booking goes above
// or below the bookings already on its new day.
func PlacementPrompt(cmd *cobra.Command) func(date string, neighbors []booking.Booking) (reposition.Placement, bool, error) {
	return func(date string, neighbors []booking.Booking) (reposition.Placement, bool, error) {
		first, last := span(neighbors)
		choices := []choice{
			{Name: "above", Short: "end an hour before " + first, Placement: reposition.Above},
			{Name: "below", Short: "start an hour after " + last, Placement: reposition.Below},
			{Name: "cancel", Short: "leave it where it is"},
		}

		templates := &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
			Inactive: "   {{ .Name }} {{ .Short | cyan }}",
			Selected: "{{ .Name | bold }}",
		}

		searcher := func(input string, index int) bool {
			name := strings.ToLower(choices[index].Name)
			return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
		}

		prompt := promptui.Select{
			HideHelp:  true,
			Label:     "Place on " + date,
			Items:     choices,
			Templates: templates,
			Size:      3,
			Searcher:  searcher,
			Stdin:     io.NopCloser(cmd.InOrStdin()),
			Stdout:    NopCloser(cmd.OutOrStdout()),
		}

		i, _, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if choices[i].Placement == "" {
			return "", false, nil
		}
		return choices[i].Placement, true, nil
	}
}

func span(day []booking.Booking) (first, last string) {
	for _, b := range day {
		if first == "" || b.StartTime < first {
			first = b.StartTime
		}
		if b.EndTime > last {
			last = b.EndTime
		}
	}
	return first, last
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
