package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/booking"
)

// BookingOptions are the editable booking fields as flags.
type BookingOptions struct {
	Date         string
	StartTime    string
	EndTime      string
	Client       string
	Phone        string
	Address      string
	Notes        string
	PricePerHour string
	Price        string
	Force        bool
}

func AddBookingArgs(cmd *cobra.Command, o *BookingOptions) {
	cmd.Flags().StringVarP(&o.Date, "on", "d", "",
		`Date of the booking, example: --on=2026-3-14, --on=3/14 or --on=tomorrow.`)
	cmd.Flags().StringVarP(&o.StartTime, "start", "s", "", "Start time, HH:MM.")
	cmd.Flags().StringVarP(&o.EndTime, "end", "e", "", "End time, HH:MM.")
	cmd.Flags().StringVarP(&o.Client, "client", "c", "", "Client name.")
	cmd.Flags().StringVar(&o.Phone, "phone", "", "Client phone.")
	cmd.Flags().StringVar(&o.Address, "address", "", "Where the cleaning happens.")
	cmd.Flags().StringVar(&o.Notes, "notes", "", "Free text notes.")
	cmd.Flags().StringVar(&o.PricePerHour, "rate", "", "Price per hour.")
	cmd.Flags().StringVar(&o.Price, "price", "", "Total price, defaults to hours times rate.")
	cmd.Flags().BoolVar(&o.Force, "force", false, "Save even when the booking overlaps another.")
}

// Draft returns the flags as a new booking draft.
func (o *BookingOptions) Draft(now time.Time) (booking.Draft, error) {
	date, err := ParseOn(o.Date, now)
	if err != nil {
		return booking.Draft{}, err
	}
	return booking.Draft{
		Date:         date,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
		Client:       o.Client,
		Phone:        o.Phone,
		Address:      o.Address,
		Notes:        o.Notes,
		PricePerHour: o.PricePerHour,
		Price:        o.Price,
	}, nil
}

// Apply copies only the flags set on cmd onto d. Changing the window or the
// rate without an explicit price recomputes the price.
func (o *BookingOptions) Apply(cmd *cobra.Command, d *booking.Draft, now time.Time) error {
	changed := cmd.Flags().Changed
	if changed("on") {
		date, err := ParseOn(o.Date, now)
		if err != nil {
			return err
		}
		d.Date = date
	}
	set := func(flag string, dst *string, v string) {
		if changed(flag) {
			*dst = v
		}
	}
	set("start", &d.StartTime, o.StartTime)
	set("end", &d.EndTime, o.EndTime)
	set("client", &d.Client, o.Client)
	set("phone", &d.Phone, o.Phone)
	set("address", &d.Address, o.Address)
	set("notes", &d.Notes, o.Notes)
	set("rate", &d.PricePerHour, o.PricePerHour)
	if (changed("start") || changed("end") || changed("rate")) && !changed("price") {
		d.Price = ""
	}
	set("price", &d.Price, o.Price)
	return nil
}
