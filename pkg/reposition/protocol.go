// Package reposition moves a booking to another day the way a drag and drop
// does: an empty target day keeps the booking's times, a busy one asks
// whether to place it above or below what is already there. The last move
// or batch copy can be undone once within a short window.
package reposition

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/timeutil"
)

// DefaultUndoWindow is how long a move or copy stays undoable.
const DefaultUndoWindow = 15 * time.Second

var (
	// ErrState is returned when a call does not fit the current state.
	ErrState = errors.New("reposition: not allowed in current state")
	// ErrNotFound is returned when the dragged booking is unknown.
	ErrNotFound = errors.New("reposition: booking not found")
)

// State of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
	Evaluating
	AwaitingPlacement
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Evaluating:
		return "evaluating"
	case AwaitingPlacement:
		return "awaiting-placement"
	case Committing:
		return "committing"
	}
	return "unknown"
}

// Mover is the part of the task store the protocol drives.
type Mover interface {
	Find(id string) (booking.Booking, bool)
	DayExcluding(date, id string) []booking.Booking
	Update(ctx context.Context, id string, d booking.Draft) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Outcome reports what a Drop or Choose did.
type Outcome struct {
	// NeedsPlacement is set when the target day is busy; call Choose or
	// Cancel next.
	NeedsPlacement bool `json:"needsPlacement"`
	// Neighbors are the bookings already on the target day.
	Neighbors []booking.Booking `json:"neighbors,omitempty"`
	// Moved is set once the booking was updated.
	Moved bool `json:"moved"`
	From  Slot `json:"from"`
	To    Slot `json:"to"`
}

// Protocol is a single-gesture drag state machine.
type Protocol struct {
	m       Mover
	now     func() time.Time
	window  time.Duration
	journal Journal

	mu        sync.Mutex
	state     State
	id        string
	target    string
	neighbors []booking.Booking
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Protocol) {
		if now != nil {
			p.now = now
		}
	}
}

// WithUndoWindow sets how long moves and copies stay undoable.
func WithUndoWindow(d time.Duration) Option {
	return func(p *Protocol) {
		if d > 0 {
			p.window = d
		}
	}
}

// WithJournal stores the pending record in j.
func WithJournal(j Journal) Option {
	return func(p *Protocol) {
		if j != nil {
			p.journal = j
		}
	}
}

// New returns an idle protocol driving m.
func New(m Mover, opts ...Option) *Protocol {
	p := &Protocol{
		m:       m,
		now:     time.Now,
		window:  DefaultUndoWindow,
		journal: NewMemoryJournal(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Protocol) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Begin starts dragging id.
func (p *Protocol) Begin(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		return fmt.Errorf("%w: begin while %s", ErrState, p.state)
	}
	if _, ok := p.m.Find(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.state = Dragging
	p.id = id
	return nil
}

// Drop releases the dragged booking on date. An empty day commits straight
// away with the original times; dropping on its own date with no neighbors
// is a no-op. A busy day waits for Choose.
func (p *Protocol) Drop(ctx context.Context, date string) (Outcome, error) {
	p.mu.Lock()
	if p.state != Dragging {
		defer p.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: drop while %s", ErrState, p.state)
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{}, err
	}
	p.state = Evaluating
	b, ok := p.m.Find(p.id)
	if !ok {
		id := p.id
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	neighbors := p.m.DayExcluding(date, b.ID)
	if len(neighbors) > 0 {
		p.state = AwaitingPlacement
		p.target = date
		p.neighbors = neighbors
		p.mu.Unlock()
		return Outcome{NeedsPlacement: true, Neighbors: neighbors}, nil
	}

	if date == b.Date {
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{From: slotOf(b), To: slotOf(b)}, nil
	}

	to := Slot{Date: date, StartTime: b.StartTime, EndTime: b.EndTime}
	p.state = Committing
	p.mu.Unlock()
	return p.commit(ctx, b, to)
}

// Choose places the dragged booking above or below the target day's
// bookings, keeping its duration. A placement that leaves the day returns
// ErrNoRoom and drops the gesture without changes.
func (p *Protocol) Choose(ctx context.Context, placement Placement) (Outcome, error) {
	p.mu.Lock()
	if p.state != AwaitingPlacement {
		defer p.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: choose while %s", ErrState, p.state)
	}
	b, ok := p.m.Find(p.id)
	if !ok {
		id := p.id
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d, err := Duration(b)
	if err != nil {
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{}, err
	}
	start, end, err := Place(placement, p.neighbors, d)
	if err != nil {
		p.resetLocked()
		p.mu.Unlock()
		return Outcome{}, err
	}
	to := Slot{Date: p.target, StartTime: timeutil.FormatClock(start), EndTime: timeutil.FormatClock(end)}
	p.state = Committing
	p.mu.Unlock()
	return p.commit(ctx, b, to)
}

// Cancel abandons the gesture. It has no effect while committing.
func (p *Protocol) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Committing {
		return
	}
	p.resetLocked()
}

func (p *Protocol) resetLocked() {
	p.state = Idle
	p.id = ""
	p.target = ""
	p.neighbors = nil
}

// commit runs without the lock; state is Committing so other calls are
// refused until it returns.
func (p *Protocol) commit(ctx context.Context, b booking.Booking, to Slot) (Outcome, error) {
	d := b.Draft()
	d.Date = to.Date
	d.StartTime = to.StartTime
	d.EndTime = to.EndTime

	ok, err := p.m.Update(ctx, b.ID, d)

	p.mu.Lock()
	p.resetLocked()
	p.mu.Unlock()

	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{}, fmt.Errorf("reposition: move of %s was not applied", b.ID)
	}

	from := slotOf(b)
	rec := Record{Kind: KindMove, ID: b.ID, From: from, To: to, ExpiresAt: p.now().Add(p.window)}
	if err := p.journal.Save(rec); err != nil {
		return Outcome{Moved: true, From: from, To: to}, fmt.Errorf("reposition: save undo record: %w", err)
	}
	return Outcome{Moved: true, From: from, To: to}, nil
}

// RecordCopy makes a batch copy undoable by deleting ids.
func (p *Protocol) RecordCopy(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rec := Record{Kind: KindCopy, IDs: append([]string(nil), ids...), ExpiresAt: p.now().Add(p.window)}
	return p.journal.Save(rec)
}

// Pending returns the live undo record, if any.
func (p *Protocol) Pending() (Record, bool) {
	rec, err := p.journal.Load()
	if err != nil || rec.Kind == KindNone || rec.Expired(p.now()) {
		return Record{}, false
	}
	return rec, true
}

// Undo reverts the pending move or copy. It reports false when nothing was
// pending or the record expired. The record is consumed before any backend
// call, so a failed undo cannot be retried.
func (p *Protocol) Undo(ctx context.Context) (bool, error) {
	p.mu.Lock()
	busy := p.state == Committing
	p.mu.Unlock()
	if busy {
		return false, fmt.Errorf("%w: undo while committing", ErrState)
	}

	rec, err := p.journal.Load()
	if err != nil {
		return false, fmt.Errorf("reposition: load undo record: %w", err)
	}
	if rec.Kind == KindNone {
		return false, nil
	}
	if err := p.journal.Clear(); err != nil {
		return false, fmt.Errorf("reposition: clear undo record: %w", err)
	}
	if rec.Expired(p.now()) {
		return false, nil
	}

	switch rec.Kind {
	case KindMove:
		b, ok := p.m.Find(rec.ID)
		if !ok {
			return true, fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
		}
		d := b.Draft()
		d.Date = rec.From.Date
		d.StartTime = rec.From.StartTime
		d.EndTime = rec.From.EndTime
		if _, err := p.m.Update(ctx, rec.ID, d); err != nil {
			return true, err
		}
		return true, nil
	case KindCopy:
		var errs []error
		for _, id := range rec.IDs {
			if err := p.m.Delete(ctx, id); err != nil {
				errs = append(errs, err)
			}
		}
		return true, errors.Join(errs...)
	}
	return false, fmt.Errorf("reposition: unknown record kind %q", rec.Kind)
}

func slotOf(b booking.Booking) Slot {
	return Slot{Date: b.Date, StartTime: b.StartTime, EndTime: b.EndTime}
}
