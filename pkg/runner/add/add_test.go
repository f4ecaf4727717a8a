package add

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
)

func init() {
	color.NoColor = true
}

func newService(t *testing.T, rows ...*booking.Booking) *app.Service {
	t.Helper()
	svc, err := app.NewService(context.Background(), &store.FileConfig{AnchorYear: 2026}, store.NewMemory(rows...), app.Options{
		Now: func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func existing() *booking.Booking {
	b := booking.New(booking.Draft{Date: "2026-05-04", StartTime: "09:00", EndTime: "11:00", Client: "Ana", PricePerHour: "20"})
	b.ID = "a1"
	return b
}

func TestAddCreatesAndPrintsDay(t *testing.T) {
	svc := newService(t)
	var buf bytes.Buffer
	n := Add{
		Draft:   booking.Draft{Date: "2026-05-04", StartTime: "13:00", EndTime: "15:00", Client: "Bia", PricePerHour: "25"},
		Service: svc,
		Out:     &buf,
	}
	require.NoError(t, n.Do(context.Background()))
	assert.Equal(t, 1, svc.Tasks.Len())
	assert.Contains(t, buf.String(), "Bia")
	assert.Contains(t, buf.String(), "13:00-15:00")
	assert.Contains(t, buf.String(), "50.00")
}

func TestAddBlocksOverlapUnlessForced(t *testing.T) {
	svc := newService(t, existing())
	d := booking.Draft{Date: "2026-05-04", StartTime: "10:00", EndTime: "12:00", Client: "Bia"}

	var buf bytes.Buffer
	n := Add{Draft: d, Service: svc, Out: &buf}
	assert.ErrorIs(t, n.Do(context.Background()), ErrOverlap)
	assert.Equal(t, 1, svc.Tasks.Len())
	assert.Contains(t, buf.String(), "overlap")

	n.Force = true
	require.NoError(t, n.Do(context.Background()))
	assert.Equal(t, 2, svc.Tasks.Len())
}

func TestAddCloseGapOnlyWarns(t *testing.T) {
	svc := newService(t, existing())
	var buf bytes.Buffer
	n := Add{
		Draft:   booking.Draft{Date: "2026-05-04", StartTime: "11:15", EndTime: "12:00", Client: "Bia"},
		Service: svc,
		Out:     &buf,
	}
	require.NoError(t, n.Do(context.Background()))
	assert.Equal(t, 2, svc.Tasks.Len())
}

func TestEditAppliesChange(t *testing.T) {
	svc := newService(t, existing())
	var buf bytes.Buffer
	n := Edit{
		ID: "a1",
		Change: func(d *booking.Draft) error {
			d.Date = "2026-05-06"
			return nil
		},
		Service: svc,
		Out:     &buf,
	}
	require.NoError(t, n.Do(context.Background()))
	b, ok := svc.Tasks.Find("a1")
	require.True(t, ok)
	assert.Equal(t, "2026-05-06", b.Date)
	assert.Equal(t, "09:00", b.StartTime)
	assert.Empty(t, svc.Tasks.Day("2026-05-04"))
}

func TestEditIgnoresItsOwnWindow(t *testing.T) {
	svc := newService(t, existing())
	n := Edit{
		ID: "a1",
		Change: func(d *booking.Draft) error {
			d.EndTime = "10:30"
			return nil
		},
		Service: svc,
		Out:     &bytes.Buffer{},
	}
	require.NoError(t, n.Do(context.Background()))
	b, _ := svc.Tasks.Find("a1")
	assert.Equal(t, "10:30", b.EndTime)
}

func TestEditUnknownID(t *testing.T) {
	svc := newService(t)
	n := Edit{ID: "zz", Service: svc, Out: &bytes.Buffer{}}
	assert.Error(t, n.Do(context.Background()))
}
