package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/store"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func draft(date, start, end, client string) booking.Draft {
	return booking.Draft{Date: date, StartTime: start, EndTime: end, Client: client, PricePerHour: "30", Phone: "555-0101"}
}

func seeded(id, date, start, end string) *booking.Booking {
	b := booking.New(draft(date, start, end, "client "+id))
	b.ID = id
	return b
}

type harness struct {
	mem   *store.Memory
	rec   *notify.Recorder
	store *Store
}

func newHarness(t *testing.T, rows ...*booking.Booking) *harness {
	t.Helper()
	h := &harness{mem: store.NewMemory(rows...), rec: &notify.Recorder{}}
	seq := 0
	h.store = New(h.mem, month.Default(2026),
		WithSink(h.rec),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("%d", seq)
		}),
	)
	require.NoError(t, h.store.Refetch(context.Background()))
	return h
}

func TestNewHasOneEmptyBucketPerMonth(t *testing.T) {
	s := New(store.NewMemory(), month.Default(2026))
	snap := s.Snapshot()
	assert.Len(t, snap, 14)
	for key, list := range snap {
		assert.Empty(t, list, key)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	h := newHarness(t)
	d := draft("2026-04-02", "09:00", "11:00", "Ana")

	got, err := h.store.Create(context.Background(), d)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsTemporary())
	assert.Equal(t, d.Normalized(), got.Draft())

	stored, ok := h.store.Find(got.ID)
	require.True(t, ok)
	assert.Equal(t, d.Normalized(), stored.Draft())
	assert.Equal(t, "60.00", stored.Price)

	list := h.store.Month("2026-04")
	require.Len(t, list, 1)
	assert.Equal(t, got.ID, list[0].ID)
	assert.Equal(t, 0, h.rec.Count(notify.Error))
}

// blockingInsert holds Insert until release is closed.
type blockingInsert struct {
	*store.Memory
	entered chan struct{}
	release chan struct{}
}

func (b *blockingInsert) Insert(ctx context.Context, row *booking.Booking) (*booking.Booking, error) {
	close(b.entered)
	<-b.release
	return b.Memory.Insert(ctx, row)
}

func TestCreateIsVisibleBeforeBackendAnswers(t *testing.T) {
	p := &blockingInsert{Memory: store.NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	s := New(p, month.Default(2026))

	done := make(chan *booking.Booking)
	go func() {
		b, _ := s.Create(context.Background(), draft("2026-04-02", "09:00", "10:00", "Ana"))
		done <- b
	}()

	<-p.entered
	pending := s.Day("2026-04-02")
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsTemporary())

	close(p.release)
	created := <-done
	require.NotNil(t, created)
	settled := s.Day("2026-04-02")
	require.Len(t, settled, 1)
	assert.Equal(t, created.ID, settled[0].ID)
}

func TestCreateFailureRemovesTemporaryRow(t *testing.T) {
	h := newHarness(t)
	h.mem.FailNext(store.OpInsert, errors.New("network down"))

	got, err := h.store.Create(context.Background(), draft("2026-04-02", "09:00", "10:00", "Ana"))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorContains(t, err, "network down")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create", perr.Op)

	assert.Equal(t, 0, h.store.Len())
	assert.Equal(t, 1, h.rec.Count(notify.Error))
}

func TestCreateRejectsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name string
		d    booking.Draft
		want error
	}{
		{name: "outside window", d: draft("2030-01-01", "09:00", "10:00", "Ana"), want: ErrInvalidDateRange},
		{name: "malformed date", d: draft("01/04/2026", "09:00", "10:00", "Ana"), want: ErrInvalidDateRange},
		{name: "end before start", d: draft("2026-04-02", "10:00", "09:00", "Ana"), want: ErrInvalidTimeWindow},
		{name: "empty end", d: draft("2026-04-02", "10:00", "", "Ana"), want: ErrInvalidTimeWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			got, err := h.store.Create(context.Background(), tt.d)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, h.mem.Calls(store.OpInsert))
			assert.Equal(t, 0, h.store.Len())
			assert.Equal(t, 1, h.rec.Count(notify.Error))
		})
	}
}

func TestUpdateRelocatesBetweenBuckets(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-30", "09:00", "10:00"))

	ok, err := h.store.Update(context.Background(), "a", draft("2026-05-02", "09:00", "10:00", "client a"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Empty(t, h.store.Month("2026-04"))
	moved := h.store.Month("2026-05")
	require.Len(t, moved, 1)
	assert.Equal(t, "2026-05-02", moved[0].Date)

	row, found := h.mem.Get("a")
	require.True(t, found)
	assert.Equal(t, "2026-05-02", row.Date)
}

func TestUpdateSameBucketInPlace(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"), seeded("b", "2026-04-03", "09:00", "10:00"))

	ok, err := h.store.Update(context.Background(), "a", draft("2026-04-02", "13:00", "15:00", "Renamed"))
	require.NoError(t, err)
	assert.True(t, ok)

	list := h.store.Month("2026-04")
	require.Len(t, list, 2)
	b, _ := h.store.Find("a")
	assert.Equal(t, "Renamed", b.Client)
	assert.Equal(t, "13:00", b.StartTime)
}

func TestUpdateFailureMatchesFreshFetch(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-30", "09:00", "10:00"))
	// Another client changes the data behind our back.
	h.mem.Put(seeded("z", "2026-06-01", "08:00", "09:00"))
	h.mem.FailNext(store.OpUpdate, errors.New("server rejected"))

	ok, err := h.store.Update(context.Background(), "a", draft("2026-05-02", "09:00", "10:00", "client a"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrPersistenceFailure)

	b, found := h.store.Find("a")
	require.True(t, found)
	assert.Equal(t, "2026-04-30", b.Date)
	_, found = h.store.Find("z")
	assert.True(t, found)
	assert.Equal(t, 2, h.mem.Calls(store.OpFetchAll))

	fresh := New(h.mem, month.Default(2026))
	require.NoError(t, fresh.Refetch(context.Background()))
	assert.Equal(t, fresh.Snapshot(), h.store.Snapshot())
}

func TestUpdateUnknownID(t *testing.T) {
	h := newHarness(t)
	ok, err := h.store.Update(context.Background(), "nope", draft("2026-04-02", "09:00", "10:00", "x"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, h.mem.Calls(store.OpUpdate))
}

func TestDelete(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	require.NoError(t, h.store.Delete(context.Background(), "a"))
	_, found := h.store.Find("a")
	assert.False(t, found)
	assert.Equal(t, 0, h.mem.Len())
}

func TestDeleteFailureRestoresSnapshot(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"), seeded("b", "2026-04-02", "11:00", "12:00"))
	before := h.store.Snapshot()
	h.mem.FailNext(store.OpDelete, errors.New("timeout"))

	err := h.store.Delete(context.Background(), "a")
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, before, h.store.Snapshot())
	assert.Equal(t, 1, h.rec.Count(notify.Error))
}

func TestToggleCompletionTwiceRestoresState(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	ctx := context.Background()

	require.NoError(t, h.store.ToggleCompletion(ctx, "a", false, "cleaner"))
	b, _ := h.store.Find("a")
	assert.True(t, b.Completed)
	assert.Equal(t, "cleaner", b.CompletedByRole)

	require.NoError(t, h.store.ToggleCompletion(ctx, "a", true, "cleaner"))
	b, _ = h.store.Find("a")
	assert.False(t, b.Completed)
	assert.Empty(t, b.CompletedByRole)

	row, _ := h.mem.Get("a")
	assert.False(t, row.Completed)
	assert.Empty(t, row.CompletedByRole)
}

func TestToggleCompletionFailureReverts(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	h.mem.FailNext(store.OpUpdate, errors.New("denied"))

	err := h.store.ToggleCompletion(context.Background(), "a", false, "admin")
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	b, _ := h.store.Find("a")
	assert.False(t, b.Completed)
	assert.Empty(t, b.CompletedByRole)
	// Toggles revert locally; only update reloads.
	assert.Equal(t, 1, h.mem.Calls(store.OpFetchAll))
}

func TestTogglePaymentStampsClock(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	ctx := context.Background()

	require.NoError(t, h.store.TogglePayment(ctx, "a", false))
	b, _ := h.store.Find("a")
	assert.True(t, b.Paid)
	require.NotNil(t, b.PaidAt)
	assert.True(t, b.PaidAt.Equal(fixedNow))
	assert.False(t, b.Completed)

	require.NoError(t, h.store.TogglePayment(ctx, "a", true))
	b, _ = h.store.Find("a")
	assert.False(t, b.Paid)
	assert.Nil(t, b.PaidAt)
}

func TestTogglePaymentFailureReverts(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	h.mem.FailNext(store.OpUpdate, errors.New("denied"))

	assert.Error(t, h.store.TogglePayment(context.Background(), "a", false))
	b, _ := h.store.Find("a")
	assert.False(t, b.Paid)
	assert.Nil(t, b.PaidAt)
}

func TestRefetchDropsRowsOutsideWindow(t *testing.T) {
	h := newHarness(t,
		seeded("in", "2026-01-31", "09:00", "10:00"),
		seeded("out", "2030-01-01", "09:00", "10:00"),
	)
	assert.Equal(t, 1, h.store.Len())
	assert.Equal(t, 1, h.rec.Count(notify.Info))
	assert.Len(t, h.store.Month("2026-01"), 1)
}

func TestRefetchFailureKeepsState(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	h.mem.FailNext(store.OpFetchAll, errors.New("offline"))

	err := h.store.Refetch(context.Background())
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	_, found := h.store.Find("a")
	assert.True(t, found)
}

func TestDayOrdering(t *testing.T) {
	h := newHarness(t,
		seeded("late", "2026-04-02", "15:00", "16:00"),
		seeded("early", "2026-04-02", "08:00", "09:00"),
		seeded("other", "2026-04-03", "07:00", "08:00"),
	)
	day := h.store.Day("2026-04-02")
	require.Len(t, day, 2)
	assert.Equal(t, "early", day[0].ID)
	assert.Equal(t, "late", day[1].ID)

	rest := h.store.DayExcluding("2026-04-02", "early")
	require.Len(t, rest, 1)
	assert.Equal(t, "late", rest[0].ID)

	assert.Nil(t, h.store.Day("2030-01-01"))
}

func TestProjectionsAreCopies(t *testing.T) {
	h := newHarness(t, seeded("a", "2026-04-02", "09:00", "10:00"))
	day := h.store.Day("2026-04-02")
	day[0].Client = "mutated"
	b, _ := h.store.Find("a")
	assert.Equal(t, "client a", b.Client)
}

func TestEventsEmitted(t *testing.T) {
	h := newHarness(t)
	// Drain the reload from the initial refetch.
	ev := <-h.store.Events()
	assert.Equal(t, ChangeReload, ev.Action)

	created, err := h.store.Create(context.Background(), draft("2026-04-02", "09:00", "10:00", "Ana"))
	require.NoError(t, err)
	ev = <-h.store.Events()
	assert.Equal(t, ChangeCreate, ev.Action)
	assert.Equal(t, created.ID, ev.ID)
	assert.Equal(t, month.Key("2026-04"), ev.Month)
}
