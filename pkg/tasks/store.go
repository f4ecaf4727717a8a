// Package tasks owns the in-memory booking collection, partitioned into month
// buckets, and keeps it in step with a persistence backend.
//
// Every mutation is optimistic: the local change is applied first and is
// visible immediately, then the backend is called. When the backend fails,
// create, delete and the toggles roll back locally, while update reloads the
// whole collection from the backend. Failures are reported through a
// notify.Sink and also returned, so callers may branch on them but are never
// required to in order to keep the store consistent.
//
// There is no per-id locking. Two mutations of the same booking issued
// back-to-back may interleave; the single-operator workflow tolerates it.
package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Store is the single owner of the month bucket collection.
type Store struct {
	p     store.Persistence
	table *month.Table
	sink  notify.Sink
	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	buckets map[month.Key][]*booking.Booking

	eventCh chan Event
}

// Option configures a Store.
type Option func(*Store)

// WithSink routes notices to sink.
func WithSink(sink notify.Sink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the temporary id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a store with one empty bucket per month of table. Call Refetch
// to load the backend's rows.
func New(p store.Persistence, table *month.Table, opts ...Option) *Store {
	s := &Store{
		p:       p,
		table:   table,
		sink:    notify.Discard,
		now:     time.Now,
		newID:   uuid.NewString,
		buckets: emptyBuckets(table),
		eventCh: make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyBuckets(table *month.Table) map[month.Key][]*booking.Booking {
	keys := table.Keys()
	out := make(map[month.Key][]*booking.Booking, len(keys))
	for _, key := range keys {
		out[key] = []*booking.Booking{}
	}
	return out
}

// Table returns the month window the store is partitioned by.
func (s *Store) Table() *month.Table {
	return s.table
}

// Now reads the injected clock.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) report(title string, err error) {
	s.sink.Notify(notify.Notice{Level: notify.Error, Title: title, Message: err.Error()})
}

// check validates a normalized draft and resolves its bucket.
func (s *Store) check(d booking.Draft) (month.Key, error) {
	if err := timeutil.ValidateTimeRange(d.StartTime, d.EndTime); err != nil {
		return "", err
	}
	key, ok := s.table.ResolveString(d.Date)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateRange, d.Date)
	}
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBooking, err)
	}
	return key, nil
}

// Create adds a booking built from d. It returns the canonical row, or nil
// when validation or the backend fails.
func (s *Store) Create(ctx context.Context, d booking.Draft) (*booking.Booking, error) {
	b, err := s.create(ctx, d)
	if err != nil {
		s.report("Could not create booking", err)
		return nil, err
	}
	return b, nil
}

func (s *Store) create(ctx context.Context, d booking.Draft) (*booking.Booking, error) {
	d = d.Normalized()
	key, err := s.check(d)
	if err != nil {
		return nil, err
	}

	tmp := booking.New(d)
	tmp.ID = booking.TempPrefix + s.newID()
	tmp.CreatedAt = s.now().UTC()

	var created *booking.Booking
	err = s.run(ctx, txn{
		op: "create",
		id: tmp.ID,
		apply: func() error {
			s.buckets[key] = append(s.buckets[key], tmp.Clone())
			return nil
		},
		remote: func(ctx context.Context) error {
			row, err := s.p.Insert(ctx, tmp)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.replaceLocked(tmp.ID, row)
			s.mu.Unlock()
			created = row.Clone()
			return nil
		},
		revert: func() {
			s.removeLocked(tmp.ID)
		},
	})
	if err != nil {
		return nil, err
	}
	s.emit(Event{Action: ChangeCreate, ID: created.ID, Month: key})
	return created, nil
}

// Update replaces the editable fields of id with d, moving the booking to
// another bucket when the month changes. A backend failure reloads the whole
// collection.
func (s *Store) Update(ctx context.Context, id string, d booking.Draft) (bool, error) {
	d = d.Normalized()
	newKey, err := s.check(d)
	if err != nil {
		s.report("Could not update booking", err)
		return false, err
	}

	patch := booking.DraftPatch(d)
	var oldKey month.Key
	err = s.run(ctx, txn{
		op: "update",
		id: id,
		apply: func() error {
			key, idx := s.locateLocked(id)
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			oldKey = key
			updated := s.buckets[key][idx].Clone()
			patch.Apply(updated)
			if key == newKey {
				s.buckets[key][idx] = updated
				return nil
			}
			s.buckets[key] = append(s.buckets[key][:idx], s.buckets[key][idx+1:]...)
			s.buckets[newKey] = append(s.buckets[newKey], updated)
			return nil
		},
		remote: func(ctx context.Context) error {
			row, err := s.p.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.replaceLocked(id, row)
			s.mu.Unlock()
			return nil
		},
		refetch: true,
	})
	if err != nil {
		s.report("Could not update booking", err)
		return false, err
	}
	s.emit(Event{Action: ChangeUpdate, ID: id, Month: newKey, Previous: oldKey})
	return true, nil
}

// Delete removes id. A backend failure restores the collection as it was.
func (s *Store) Delete(ctx context.Context, id string) error {
	var key month.Key
	err := s.run(ctx, txn{
		op: "delete",
		id: id,
		apply: func() error {
			k, idx := s.locateLocked(id)
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			key = k
			s.buckets[k] = append(s.buckets[k][:idx], s.buckets[k][idx+1:]...)
			return nil
		},
		remote: func(ctx context.Context) error {
			return s.p.Delete(ctx, id)
		},
	})
	if err != nil {
		s.report("Could not delete booking", err)
		return err
	}
	s.emit(Event{Action: ChangeDelete, ID: id, Month: key})
	return nil
}

// ToggleCompletion flips the completed flag of id from currentlyCompleted.
// Completing records role; reopening clears it.
func (s *Store) ToggleCompletion(ctx context.Context, id string, currentlyCompleted bool, role string) error {
	return s.toggle(ctx, "complete", id, booking.CompletionPatch(!currentlyCompleted, role))
}

// TogglePayment flips the paid flag of id from currentlyPaid. Marking paid
// stamps the current time; marking unpaid clears it.
func (s *Store) TogglePayment(ctx context.Context, id string, currentlyPaid bool) error {
	return s.toggle(ctx, "payment", id, booking.PaymentPatch(!currentlyPaid, s.now()))
}

func (s *Store) toggle(ctx context.Context, op, id string, patch booking.Patch) error {
	var key month.Key
	err := s.run(ctx, txn{
		op: op,
		id: id,
		apply: func() error {
			// Search every bucket; callers rarely know the month.
			k, idx := s.locateLocked(id)
			if idx < 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			key = k
			flipped := s.buckets[k][idx].Clone()
			patch.Apply(flipped)
			s.buckets[k][idx] = flipped
			return nil
		},
		remote: func(ctx context.Context) error {
			row, err := s.p.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.replaceLocked(id, row)
			s.mu.Unlock()
			return nil
		},
	})
	if err != nil {
		s.report("Could not change status", err)
		return err
	}
	s.emit(Event{Action: ChangeUpdate, ID: id, Month: key, Previous: key})
	return nil
}

// Refetch rebuilds every bucket from the backend. Rows dated outside the
// window are dropped and reported once.
func (s *Store) Refetch(ctx context.Context) error {
	rows, err := s.p.FetchAll(ctx)
	if err != nil {
		perr := &PersistenceError{Op: "refetch", Err: err}
		s.report("Could not load bookings", perr)
		return perr
	}

	fresh := emptyBuckets(s.table)
	dropped := 0
	for _, b := range rows {
		key, ok := s.table.ResolveString(b.Date)
		if !ok {
			dropped++
			continue
		}
		fresh[key] = append(fresh[key], b.Clone())
	}
	for _, list := range fresh {
		sortBucket(list)
	}

	s.mu.Lock()
	s.buckets = fresh
	s.mu.Unlock()

	if dropped > 0 {
		first, last := s.table.Bounds()
		s.sink.Notify(notify.Notice{
			Level:   notify.Info,
			Title:   "Skipped bookings",
			Message: fmt.Sprintf("%d dated outside %s to %s", dropped, first, last),
		})
	}
	s.emit(Event{Action: ChangeReload})
	return nil
}

// locateLocked finds the bucket and index holding id, or -1.
func (s *Store) locateLocked(id string) (month.Key, int) {
	for key, list := range s.buckets {
		for i, b := range list {
			if b.ID == id {
				return key, i
			}
		}
	}
	return "", -1
}

func (s *Store) removeLocked(id string) {
	if key, idx := s.locateLocked(id); idx >= 0 {
		s.buckets[key] = append(s.buckets[key][:idx], s.buckets[key][idx+1:]...)
	}
}

// replaceLocked swaps the local copy of id for the canonical row, placing it
// in the bucket its date resolves to. A row outside the window is dropped.
func (s *Store) replaceLocked(id string, row *booking.Booking) {
	s.removeLocked(id)
	if row.ID != id {
		s.removeLocked(row.ID)
	}
	key, ok := s.table.ResolveString(row.Date)
	if !ok {
		return
	}
	s.buckets[key] = append(s.buckets[key], row.Clone())
}

func sortBucket(list []*booking.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return list[i].StartTime < list[j].StartTime
	})
}
