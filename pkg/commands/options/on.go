package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/timeutil"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2026-3-14", --on="3/14" or --on=tomorrow.`)
}

// GetOn returns the date as YYYY-MM-DD, or "" when unset.
func (o *OnOptions) GetOn(now time.Time) (string, error) {
	return ParseOn(o.OnString, now)
}

// ParseOn reads loose date input relative to now.
func ParseOn(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch s {
	case "":
		return "", nil
	case "today":
		return timeutil.FormatDate(today), nil
	case "tomorrow":
		return timeutil.FormatDate(today.AddDate(0, 0, 1)), nil
	case "yesterday":
		return timeutil.FormatDate(today.AddDate(0, 0, -1)), nil
	}
	t, err := time.Parse(layoutISO, s)
	if err != nil {
		// Let the year be the same.
		t, err = time.Parse(layoutISOShort, s)
		if err != nil {
			return "", fmt.Errorf("invalid date %q", s)
		}
		t = t.AddDate(today.Year(), 0, 0)
		// 1/3 said on 12/5 means next year, not eleven months ago.
		if t.Before(today) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return timeutil.FormatDate(t), nil
}
