package tasks

import (
	"errors"
	"fmt"

	"tableflip.dev/agenda/pkg/booking"
)

var (
	// ErrInvalidDateRange is returned when a date has no month bucket.
	ErrInvalidDateRange = errors.New("tasks: date outside the supported months")

	// ErrInvalidTimeWindow is returned when end is not strictly after start.
	ErrInvalidTimeWindow = booking.ErrInvalidTimeWindow

	// ErrPersistenceFailure matches every *PersistenceError.
	ErrPersistenceFailure = errors.New("tasks: persistence failure")

	// ErrInvalidBooking wraps draft validation failures other than the time
	// window and the month range.
	ErrInvalidBooking = errors.New("tasks: invalid booking")

	// ErrNotFound is returned when no bucket holds the requested id.
	ErrNotFound = errors.New("tasks: booking not found")
)

// PersistenceError wraps a failed call to the persistence collaborator.
type PersistenceError struct {
	Op  string
	ID  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("tasks: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tasks: %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}
