package strike

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/tasks"
)

func init() {
	color.NoColor = true
}

func row(id, date string) *booking.Booking {
	b := booking.New(booking.Draft{Date: date, StartTime: "09:00", EndTime: "10:00", Client: "client " + id})
	b.ID = id
	return b
}

func TestStrikeContinuesPastFailures(t *testing.T) {
	svc, err := app.NewService(context.Background(), &store.FileConfig{AnchorYear: 2026},
		store.NewMemory(row("aa1", "2026-05-04"), row("bb1", "2026-05-04"), row("cc1", "2026-05-06")),
		app.Options{Now: func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }})
	require.NoError(t, err)

	var buf bytes.Buffer
	n := Strike{IDs: []string{"aa", "zz", "cc1"}, Service: svc, Out: &buf}
	err = n.Do(context.Background())
	assert.ErrorIs(t, err, tasks.ErrNotFound)

	assert.Equal(t, 1, svc.Tasks.Len())
	_, ok := svc.Tasks.Find("bb1")
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "client bb1")
}
