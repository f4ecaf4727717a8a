// Package booking defines the scheduled appointment record and its edits.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/agenda/pkg/price"
	"tableflip.dev/agenda/pkg/timeutil"
)

// ErrInvalidTimeWindow is returned when a booking's end time is not strictly
// after its start time.
var ErrInvalidTimeWindow = timeutil.ErrInvalidTimeWindow

// TempPrefix marks ids minted locally before the backend assigns one.
const TempPrefix = "tmp-"

// Booking is one scheduled cleaning appointment.
type Booking struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"`
	StartTime       string     `json:"startTime"`
	EndTime         string     `json:"endTime"`
	Client          string     `json:"client"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	Notes           string     `json:"notes"`
	PricePerHour    string     `json:"pricePerHour"`
	Price           string     `json:"price"`
	Completed       bool       `json:"completed"`
	CompletedByRole string     `json:"completedByRole,omitempty"`
	Paid            bool       `json:"pago"`
	PaidAt          *time.Time `json:"dataPagamento,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
}

// New builds an unsaved booking from a draft.
func New(d Draft) *Booking {
	d = d.Normalized()
	return &Booking{
		Date:         d.Date,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		Client:       d.Client,
		Phone:        d.Phone,
		Address:      d.Address,
		Notes:        d.Notes,
		PricePerHour: d.PricePerHour,
		Price:        d.Price,
	}
}

// IsTemporary reports whether the id was minted locally.
func (b *Booking) IsTemporary() bool {
	return strings.HasPrefix(b.ID, TempPrefix)
}

// Draft returns the user-editable fields of the booking.
func (b *Booking) Draft() Draft {
	return Draft{
		Date:         b.Date,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Client:       b.Client,
		Phone:        b.Phone,
		Address:      b.Address,
		Notes:        b.Notes,
		PricePerHour: b.PricePerHour,
		Price:        b.Price,
	}
}

// Duration returns the length of the booking's window in minutes.
func (b *Booking) Duration() (int, error) {
	return timeutil.Span(b.StartTime, b.EndTime)
}

// Clone returns a deep copy.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.PaidAt != nil {
		at := *b.PaidAt
		c.PaidAt = &at
	}
	return &c
}

func (b *Booking) String() string {
	return fmt.Sprintf("%s %s-%s %s", b.Date, b.StartTime, b.EndTime, b.Client)
}

// Draft carries the fields a user fills in when creating or editing a booking.
type Draft struct {
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Client       string `json:"client"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Notes        string `json:"notes"`
	PricePerHour string `json:"pricePerHour"`
	Price        string `json:"price"`
}

// Normalized trims free text and renders prices in fixed-point form. When no
// explicit price is given it is derived from the hourly rate.
func (d Draft) Normalized() Draft {
	d.Date = strings.TrimSpace(d.Date)
	d.StartTime = strings.TrimSpace(d.StartTime)
	d.EndTime = strings.TrimSpace(d.EndTime)
	d.Client = strings.TrimSpace(d.Client)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.Notes = strings.TrimSpace(d.Notes)
	if m, err := timeutil.ParseClock(d.StartTime); err == nil {
		d.StartTime = timeutil.FormatClock(m)
	}
	if m, err := timeutil.ParseClock(d.EndTime); err == nil {
		d.EndTime = timeutil.FormatClock(m)
	}
	d.PricePerHour = price.Normalize(d.PricePerHour)
	d.Price = price.Normalize(d.Price)
	if d.Price == "" && d.PricePerHour != "" {
		if p, ok := price.Compute(d.StartTime, d.EndTime, d.PricePerHour); ok {
			d.Price = p
		}
	}
	return d
}

// Validate checks the draft before it is persisted.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Client) == "" {
		return errors.New("client is required")
	}
	if _, err := timeutil.ParseDate(d.Date); err != nil {
		return err
	}
	if err := timeutil.ValidateTimeRange(d.StartTime, d.EndTime); err != nil {
		return err
	}
	if _, err := price.Parse(d.PricePerHour); err != nil {
		return err
	}
	if _, err := price.Parse(d.Price); err != nil {
		return err
	}
	return nil
}

// Patch is a partial field set applied by update-by-id. Nil fields are left
// untouched.
type Patch struct {
	Date            *string    `json:"date,omitempty"`
	StartTime       *string    `json:"startTime,omitempty"`
	EndTime         *string    `json:"endTime,omitempty"`
	Client          *string    `json:"client,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Address         *string    `json:"address,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	PricePerHour    *string    `json:"pricePerHour,omitempty"`
	Price           *string    `json:"price,omitempty"`
	Completed       *bool      `json:"completed,omitempty"`
	CompletedByRole *string    `json:"completedByRole,omitempty"`
	Paid            *bool      `json:"pago,omitempty"`
	PaidAt          *time.Time `json:"dataPagamento,omitempty"`
	ClearPaidAt     bool       `json:"-"`
}

// DraftPatch sets every draft field.
func DraftPatch(d Draft) Patch {
	return Patch{
		Date:         &d.Date,
		StartTime:    &d.StartTime,
		EndTime:      &d.EndTime,
		Client:       &d.Client,
		Phone:        &d.Phone,
		Address:      &d.Address,
		Notes:        &d.Notes,
		PricePerHour: &d.PricePerHour,
		Price:        &d.Price,
	}
}

// CompletionPatch sets completion and the completing role together.
func CompletionPatch(completed bool, role string) Patch {
	if !completed {
		role = ""
	}
	return Patch{Completed: &completed, CompletedByRole: &role}
}

// PaymentPatch sets the paid flag and its timestamp together.
func PaymentPatch(paid bool, at time.Time) Patch {
	if !paid {
		return Patch{Paid: &paid, ClearPaidAt: true}
	}
	at = at.UTC()
	return Patch{Paid: &paid, PaidAt: &at}
}

// Apply copies the set fields onto b.
func (p Patch) Apply(b *Booking) {
	setString(&b.Date, p.Date)
	setString(&b.StartTime, p.StartTime)
	setString(&b.EndTime, p.EndTime)
	setString(&b.Client, p.Client)
	setString(&b.Phone, p.Phone)
	setString(&b.Address, p.Address)
	setString(&b.Notes, p.Notes)
	setString(&b.PricePerHour, p.PricePerHour)
	setString(&b.Price, p.Price)
	setString(&b.CompletedByRole, p.CompletedByRole)
	if p.Completed != nil {
		b.Completed = *p.Completed
	}
	if p.Paid != nil {
		b.Paid = *p.Paid
	}
	switch {
	case p.ClearPaidAt:
		b.PaidAt = nil
	case p.PaidAt != nil:
		at := p.PaidAt.UTC()
		b.PaidAt = &at
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
