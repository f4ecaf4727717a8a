package reposition_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/tasks"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func row(id, date, start, end string) *booking.Booking {
	b := booking.New(booking.Draft{Date: date, StartTime: start, EndTime: end, Client: "client " + id, Notes: "keys under mat", PricePerHour: "20"})
	b.ID = id
	return b
}

type fixture struct {
	mem   *store.Memory
	store *tasks.Store
	clock *clock
	p     *reposition.Protocol
}

func newFixture(t *testing.T, rows ...*booking.Booking) *fixture {
	t.Helper()
	f := &fixture{
		mem:   store.NewMemory(rows...),
		clock: &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)},
	}
	f.store = tasks.New(f.mem, month.Default(2026))
	require.NoError(t, f.store.Refetch(context.Background()))
	f.p = reposition.New(f.store, reposition.WithClock(f.clock.Now))
	return f
}

func TestMoveToEmptyDayKeepsTimes(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "09:15", "11:45"))
	ctx := context.Background()

	require.NoError(t, f.p.Begin("a"))
	assert.Equal(t, reposition.Dragging, f.p.State())

	out, err := f.p.Drop(ctx, "2026-06-10")
	require.NoError(t, err)
	assert.True(t, out.Moved)
	assert.False(t, out.NeedsPlacement)
	assert.Equal(t, reposition.Idle, f.p.State())

	b, ok := f.store.Find("a")
	require.True(t, ok)
	assert.Equal(t, "2026-06-10", b.Date)
	assert.Equal(t, "09:15", b.StartTime)
	assert.Equal(t, "11:45", b.EndTime)
	assert.Equal(t, "keys under mat", b.Notes)
	d, err := reposition.Duration(b)
	require.NoError(t, err)
	assert.Equal(t, 150, d)
}

func TestDropOnOwnEmptyDayIsNoop(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "09:00", "10:00"))
	require.NoError(t, f.p.Begin("a"))
	out, err := f.p.Drop(context.Background(), "2026-05-04")
	require.NoError(t, err)
	assert.False(t, out.Moved)
	assert.Equal(t, 0, f.mem.Calls(store.OpUpdate))
	_, pending := f.p.Pending()
	assert.False(t, pending)
}

func TestInsertAboveAndUndo(t *testing.T) {
	f := newFixture(t,
		row("a", "2026-05-04", "14:00", "16:00"),
		row("x", "2026-05-06", "10:00", "11:00"),
		row("y", "2026-05-06", "12:00", "13:00"),
	)
	ctx := context.Background()

	require.NoError(t, f.p.Begin("a"))
	out, err := f.p.Drop(ctx, "2026-05-06")
	require.NoError(t, err)
	assert.True(t, out.NeedsPlacement)
	assert.Len(t, out.Neighbors, 2)
	assert.Equal(t, reposition.AwaitingPlacement, f.p.State())
	assert.Equal(t, 0, f.mem.Calls(store.OpUpdate))

	out, err = f.p.Choose(ctx, reposition.Above)
	require.NoError(t, err)
	assert.Equal(t, reposition.Slot{Date: "2026-05-06", StartTime: "07:00", EndTime: "09:00"}, out.To)

	b, _ := f.store.Find("a")
	assert.Equal(t, "2026-05-06", b.Date)
	assert.Equal(t, "07:00", b.StartTime)
	assert.Equal(t, "09:00", b.EndTime)

	undone, err := f.p.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	b, _ = f.store.Find("a")
	assert.Equal(t, "2026-05-04", b.Date)
	assert.Equal(t, "14:00", b.StartTime)
	assert.Equal(t, "16:00", b.EndTime)

	updates := f.mem.Calls(store.OpUpdate)
	undone, err = f.p.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, undone)
	assert.Equal(t, updates, f.mem.Calls(store.OpUpdate))
}

func TestInsertBelow(t *testing.T) {
	f := newFixture(t,
		row("a", "2026-05-04", "08:00", "09:00"),
		row("x", "2026-05-06", "10:00", "12:00"),
	)
	ctx := context.Background()
	require.NoError(t, f.p.Begin("a"))
	_, err := f.p.Drop(ctx, "2026-05-06")
	require.NoError(t, err)
	_, err = f.p.Choose(ctx, reposition.Below)
	require.NoError(t, err)

	b, _ := f.store.Find("a")
	assert.Equal(t, "13:00", b.StartTime)
	assert.Equal(t, "14:00", b.EndTime)
}

func TestChooseWithoutRoomLeavesBookingAlone(t *testing.T) {
	f := newFixture(t,
		row("a", "2026-05-04", "08:00", "12:00"),
		row("x", "2026-05-06", "02:00", "03:00"),
	)
	ctx := context.Background()
	require.NoError(t, f.p.Begin("a"))
	_, err := f.p.Drop(ctx, "2026-05-06")
	require.NoError(t, err)

	_, err = f.p.Choose(ctx, reposition.Above)
	assert.ErrorIs(t, err, reposition.ErrNoRoom)
	assert.Equal(t, reposition.Idle, f.p.State())
	b, _ := f.store.Find("a")
	assert.Equal(t, "2026-05-04", b.Date)
	assert.Equal(t, 0, f.mem.Calls(store.OpUpdate))
}

func TestCancelAwaitingPlacement(t *testing.T) {
	f := newFixture(t,
		row("a", "2026-05-04", "08:00", "09:00"),
		row("x", "2026-05-06", "10:00", "12:00"),
	)
	require.NoError(t, f.p.Begin("a"))
	_, err := f.p.Drop(context.Background(), "2026-05-06")
	require.NoError(t, err)

	f.p.Cancel()
	assert.Equal(t, reposition.Idle, f.p.State())
	assert.Equal(t, 0, f.mem.Calls(store.OpUpdate))
	_, err = f.p.Choose(context.Background(), reposition.Below)
	assert.ErrorIs(t, err, reposition.ErrState)
}

func TestStateGuards(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "08:00", "09:00"))
	ctx := context.Background()

	_, err := f.p.Drop(ctx, "2026-05-06")
	assert.ErrorIs(t, err, reposition.ErrState)
	assert.ErrorIs(t, f.p.Begin("missing"), reposition.ErrNotFound)

	require.NoError(t, f.p.Begin("a"))
	assert.ErrorIs(t, f.p.Begin("a"), reposition.ErrState)
}

func TestFailedCommitLeavesNoUndo(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "08:00", "09:00"))
	f.mem.FailNext(store.OpUpdate, errors.New("offline"))

	require.NoError(t, f.p.Begin("a"))
	_, err := f.p.Drop(context.Background(), "2026-05-20")
	assert.ErrorIs(t, err, tasks.ErrPersistenceFailure)
	assert.Equal(t, reposition.Idle, f.p.State())
	_, pending := f.p.Pending()
	assert.False(t, pending)

	b, _ := f.store.Find("a")
	assert.Equal(t, "2026-05-04", b.Date)
}

func TestUndoExpires(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "08:00", "09:00"))
	ctx := context.Background()
	require.NoError(t, f.p.Begin("a"))
	_, err := f.p.Drop(ctx, "2026-05-20")
	require.NoError(t, err)

	f.clock.Advance(reposition.DefaultUndoWindow)
	undone, err := f.p.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, undone)

	b, _ := f.store.Find("a")
	assert.Equal(t, "2026-05-20", b.Date)
}

func TestUndoCopyDeletesBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids, err := f.store.CreateBatch(ctx, []booking.Draft{
		{Date: "2026-05-04", StartTime: "08:00", EndTime: "09:00", Client: "A"},
		{Date: "2026-05-05", StartTime: "08:00", EndTime: "09:00", Client: "B"},
	})
	require.NoError(t, err)
	require.NoError(t, f.p.RecordCopy(ids))

	rec, ok := f.p.Pending()
	require.True(t, ok)
	assert.Equal(t, reposition.KindCopy, rec.Kind)

	undone, err := f.p.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 0, f.mem.Len())
}

func TestUndoSurvivesProcessesWithFileJournal(t *testing.T) {
	f := newFixture(t, row("a", "2026-05-04", "08:00", "09:00"))
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".pending.json")

	first := reposition.New(f.store, reposition.WithClock(f.clock.Now), reposition.WithJournal(reposition.NewFileJournal(path)))
	require.NoError(t, first.Begin("a"))
	_, err := first.Drop(ctx, "2026-05-20")
	require.NoError(t, err)

	f.clock.Advance(5 * time.Second)
	second := reposition.New(f.store, reposition.WithClock(f.clock.Now), reposition.WithJournal(reposition.NewFileJournal(path)))
	undone, err := second.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, undone)

	b, _ := f.store.Find("a")
	assert.Equal(t, "2026-05-04", b.Date)
}
