package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/booking"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteInsertAndFetch(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	_, err := s.Insert(ctx, newDraft("2026-04-03", "10:00", "11:30", "B"))
	require.NoError(t, err)
	first, err := s.Insert(ctx, newDraft("2026-04-02", "10:00", "11:00", "A"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Client)
	assert.Equal(t, "B", all[1].Client)
	assert.Equal(t, "30.00", all[1].Price)
	assert.Nil(t, all[0].PaidAt)
}

func TestSQLiteUpdatePatch(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	row, err := s.Insert(ctx, newDraft("2026-04-02", "10:00", "11:00", "A"))
	require.NoError(t, err)

	updated, err := s.Update(ctx, row.ID, booking.CompletionPatch(true, "admin"))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "admin", updated.CompletedByRole)
	assert.Equal(t, "A", updated.Client)

	at := time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)
	_, err = s.Update(ctx, row.ID, booking.PaymentPatch(true, at))
	require.NoError(t, err)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].PaidAt)
	assert.True(t, all[0].PaidAt.Equal(at))
	assert.True(t, all[0].Completed)

	_, err = s.Update(ctx, "missing", booking.Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	row, err := s.Insert(ctx, newDraft("2026-04-02", "10:00", "11:00", "A"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, row.ID))
	assert.ErrorIs(t, s.Delete(ctx, row.ID), ErrNotFound)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteRejectsBadDate(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.Insert(context.Background(), &booking.Booking{Date: "04/02/2026", StartTime: "10:00", EndTime: "11:00", Client: "A"})
	assert.Error(t, err)
}
