package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/agenda/pkg/booking"
)

// Op names a Memory operation for fault injection.
type Op string

const (
	OpFetchAll Op = "fetch"
	OpInsert   Op = "insert"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

// Memory is an in-process Persistence. It backs tests and short-lived
// sessions and can be told to fail specific operations.
type Memory struct {
	mu     sync.Mutex
	rows   map[string]*booking.Booking
	faults map[Op][]error
	calls  map[Op]int
	seq    int
	now    func() time.Time
	subs   []chan Event
}

// NewMemory returns a Memory seeded with rows. Seeded ids are kept; rows
// without one get a fresh id.
func NewMemory(rows ...*booking.Booking) *Memory {
	m := &Memory{
		rows:   make(map[string]*booking.Booking, len(rows)),
		faults: make(map[Op][]error),
		calls:  make(map[Op]int),
		now:    time.Now,
	}
	for _, b := range rows {
		c := b.Clone()
		if c.ID == "" {
			c.ID = m.nextID()
		}
		m.rows[c.ID] = c
	}
	return m
}

func (m *Memory) nextID() string {
	m.seq++
	return fmt.Sprintf("m%04d", m.seq)
}

// FailNext queues err to be returned by the next call of op.
func (m *Memory) FailNext(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = errors.New("store: injected failure")
	}
	m.faults[op] = append(m.faults[op], err)
}

// Calls reports how many times op was invoked.
func (m *Memory) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Put writes b directly, bypassing faults. Useful to simulate another
// client changing the data.
func (m *Memory) Put(b *booking.Booking) {
	m.mu.Lock()
	m.rows[b.ID] = b.Clone()
	m.mu.Unlock()
	m.broadcast(Event{Type: EventMonthChanged, Month: monthOf(b.Date)})
}

// Get returns a copy of the stored row.
func (m *Memory) Get(id string) (*booking.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// Len returns the number of stored rows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *Memory) enter(op Op) error {
	m.calls[op]++
	if q := m.faults[op]; len(q) > 0 {
		m.faults[op] = q[1:]
		return q[0]
	}
	return nil
}

// FetchAll implements Persistence.
func (m *Memory) FetchAll(ctx context.Context) ([]*booking.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(OpFetchAll); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := make([]*booking.Booking, 0, len(m.rows))
	for _, b := range m.rows {
		all = append(all, b.Clone())
	}
	SortBookings(all)
	return all, nil
}

// Insert implements Persistence.
func (m *Memory) Insert(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	m.mu.Lock()
	if err := m.enter(OpInsert); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	row := b.Clone()
	row.ID = m.nextID()
	row.CreatedAt = m.now().UTC()
	m.rows[row.ID] = row
	out := row.Clone()
	m.mu.Unlock()
	m.broadcast(Event{Type: EventMonthChanged, Month: monthOf(row.Date)})
	return out, nil
}

// Update implements Persistence.
func (m *Memory) Update(ctx context.Context, id string, p booking.Patch) (*booking.Booking, error) {
	m.mu.Lock()
	if err := m.enter(OpUpdate); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	row, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	p.Apply(row)
	out := row.Clone()
	m.mu.Unlock()
	m.broadcast(Event{Type: EventMonthChanged, Month: monthOf(out.Date)})
	return out, nil
}

// Delete implements Persistence.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if err := m.enter(OpDelete); err != nil {
		m.mu.Unlock()
		return err
	}
	row, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.rows, id)
	m.mu.Unlock()
	m.broadcast(Event{Type: EventMonthChanged, Month: monthOf(row.Date)})
	return nil
}

// Watch implements Persistence. Every successful mutation is announced.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *Memory) broadcast(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// Close implements Persistence.
func (m *Memory) Close() error {
	return nil
}

func monthOf(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}
