package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/reposition"
)

// PlacementOptions
type PlacementOptions struct {
	Above bool
	Below bool
}

func AddPlacementArgs(cmd *cobra.Command, o *PlacementOptions) {
	cmd.Flags().BoolVar(&o.Above, "above", false,
		"On a busy day, end one hour before the first booking.")
	cmd.Flags().BoolVar(&o.Below, "below", false,
		"On a busy day, start one hour after the last booking.")
}

// Placement returns the chosen side, or "" when neither flag is set.
func (o *PlacementOptions) Placement() (reposition.Placement, error) {
	switch {
	case o.Above && o.Below:
		return "", errors.New("--above and --below are exclusive")
	case o.Above:
		return reposition.Above, nil
	case o.Below:
		return reposition.Below, nil
	}
	return "", nil
}

// RoleOptions
type RoleOptions struct {
	Role string
}

func AddRoleArgs(cmd *cobra.Command, o *RoleOptions) {
	cmd.Flags().StringVar(&o.Role, "role", "",
		"Role recorded as completing the booking, defaults to the configured role.")
}
