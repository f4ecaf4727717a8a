package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFaultInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("boom")
	m.FailNext(OpInsert, boom)

	_, err := m.Insert(ctx, newDraft("2026-04-02", "10:00", "11:00", "A"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	row, err := m.Insert(ctx, newDraft("2026-04-02", "10:00", "11:00", "A"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, m.Calls(OpInsert))

	got, ok := m.Get(row.ID)
	require.True(t, ok)
	assert.Equal(t, "A", got.Client)
}

func TestMemoryWatchBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory()
	ch, err := m.Watch(ctx)
	require.NoError(t, err)

	m.Put(newDraft("2026-07-01", "10:00", "11:00", "A"))
	select {
	case ev := <-ch:
		assert.Equal(t, "2026-07", ev.Month)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestFileJournal(t *testing.T) {
	j := NewFileJournal(JournalPath(t.TempDir()))

	var v map[string]string
	ok, err := j.Load(&v)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.Save(map[string]string{"kind": "copy"}))
	ok, err = j.Load(&v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "copy", v["kind"])

	require.NoError(t, j.Clear())
	require.NoError(t, j.Clear())
	ok, err = j.Load(&v)
	require.NoError(t, err)
	assert.False(t, ok)
}
