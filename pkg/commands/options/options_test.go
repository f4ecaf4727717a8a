package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/reposition"
)

func TestParseOn(t *testing.T) {
	now := time.Date(2026, 12, 5, 15, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"empty":      {in: "", want: ""},
		"today":      {in: "Today", want: "2026-12-05"},
		"tomorrow":   {in: "tomorrow", want: "2026-12-06"},
		"yesterday":  {in: "yesterday", want: "2026-12-04"},
		"iso":        {in: "2026-3-14", want: "2026-03-14"},
		"padded iso": {in: "2026-03-04", want: "2026-03-04"},
		"short":      {in: "12/24", want: "2026-12-24"},
		"short past": {in: "1/3", want: "2027-01-03"},
		"garbage":    {in: "soon", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseOn(tc.in, now)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyOnlyChangedFlags(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := map[string]struct {
		args []string
		want booking.Draft
	}{
		"date only keeps price": {
			args: []string{"--on", "2026-5-9"},
			want: booking.Draft{Date: "2026-05-09", StartTime: "09:00", EndTime: "11:00", Client: "Ana", PricePerHour: "20.00", Price: "40.00"},
		},
		"times clear price": {
			args: []string{"-s", "10:00"},
			want: booking.Draft{Date: "2026-05-04", StartTime: "10:00", EndTime: "11:00", Client: "Ana", PricePerHour: "20.00"},
		},
		"explicit price wins": {
			args: []string{"--rate", "30", "--price", "55"},
			want: booking.Draft{Date: "2026-05-04", StartTime: "09:00", EndTime: "11:00", Client: "Ana", PricePerHour: "30", Price: "55"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := &BookingOptions{}
			cmd := &cobra.Command{Use: "edit"}
			AddBookingArgs(cmd, o)
			require.NoError(t, cmd.Flags().Parse(tc.args))

			d := booking.Draft{Date: "2026-05-04", StartTime: "09:00", EndTime: "11:00", Client: "Ana", PricePerHour: "20.00", Price: "40.00"}
			require.NoError(t, o.Apply(cmd, &d, now))
			assert.Equal(t, tc.want, d)
		})
	}
}

func TestPlacement(t *testing.T) {
	p, err := (&PlacementOptions{}).Placement()
	require.NoError(t, err)
	assert.Equal(t, reposition.Placement(""), p)

	p, err = (&PlacementOptions{Below: true}).Placement()
	require.NoError(t, err)
	assert.Equal(t, reposition.Below, p)

	_, err = (&PlacementOptions{Above: true, Below: true}).Placement()
	assert.Error(t, err)
}
