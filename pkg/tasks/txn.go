package tasks

import (
	"context"
	"errors"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
)

// txn is one optimistic mutation: apply locally, call the backend, then
// confirm or recover.
type txn struct {
	op string
	id string
	// apply mutates the buckets. It runs with the lock held and must not
	// block.
	apply func() error
	// remote talks to the backend. It runs without the lock and confirms the
	// canonical row itself.
	remote func(ctx context.Context) error
	// revert undoes apply with the lock held. When nil the pre-apply
	// snapshot is restored.
	revert func()
	// refetch recovers by reloading everything instead of reverting.
	refetch bool
}

// run executes t. Local errors from apply abort before any backend call;
// backend errors are wrapped in a *PersistenceError after recovery.
func (s *Store) run(ctx context.Context, t txn) error {
	s.mu.Lock()
	var snapshot map[month.Key][]*booking.Booking
	if t.revert == nil && !t.refetch {
		snapshot = cloneBuckets(s.buckets)
	}
	if err := t.apply(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	err := t.remote(ctx)
	if err == nil {
		return nil
	}

	perr := &PersistenceError{Op: t.op, ID: t.id, Err: err}
	switch {
	case t.refetch:
		if rerr := s.Refetch(ctx); rerr != nil {
			return errors.Join(perr, rerr)
		}
	case t.revert != nil:
		s.mu.Lock()
		t.revert()
		s.mu.Unlock()
		s.emit(Event{Action: ChangeReload})
	default:
		s.mu.Lock()
		s.buckets = snapshot
		s.mu.Unlock()
		s.emit(Event{Action: ChangeReload})
	}
	return perr
}

func cloneBuckets(in map[month.Key][]*booking.Booking) map[month.Key][]*booking.Booking {
	out := make(map[month.Key][]*booking.Booking, len(in))
	for key, list := range in {
		cp := make([]*booking.Booking, len(list))
		for i, b := range list {
			cp[i] = b.Clone()
		}
		out[key] = cp
	}
	return out
}
