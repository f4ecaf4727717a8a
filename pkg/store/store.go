// Package store persists bookings. Every backend satisfies Persistence so
// the task store can treat them as one remote collaborator.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tableflip.dev/agenda/pkg/booking"
)

// ErrNotFound is returned when no booking has the requested id.
var ErrNotFound = errors.New("store: booking not found")

// Persistence defines the persistence contract for bookings. Each call
// reports failure through its error; the returned bookings are canonical
// rows owned by the caller.
type Persistence interface {
	// FetchAll returns every booking ordered by date then start time.
	FetchAll(ctx context.Context) ([]*booking.Booking, error)
	// Insert stores b under a new id and returns the canonical row.
	Insert(ctx context.Context, b *booking.Booking) (*booking.Booking, error)
	// Update applies a partial field set to the booking with id.
	Update(ctx context.Context, id string, p booking.Patch) (*booking.Booking, error)
	// Delete removes the booking with id.
	Delete(ctx context.Context, id string) error
	// Watch streams change notifications until ctx is done. Backends that
	// cannot observe foreign writes return a nil channel.
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// NewID mints a backend id. Ids never contain '-' so they can be embedded in
// disk keys.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SortBookings orders bookings by date, start time and id.
func SortBookings(list []*booking.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		left, right := list[i], list[j]
		if left == nil || right == nil {
			return left != nil
		}
		if left.Date != right.Date {
			return left.Date < right.Date
		}
		if left.StartTime != right.StartTime {
			return left.StartTime < right.StartTime
		}
		return left.ID < right.ID
	})
}
