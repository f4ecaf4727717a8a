package tasks

import (
	"context"

	"tableflip.dev/agenda/pkg/store"
)

// Sync refetches whenever the backend reports a change, until ctx is done or
// events is closed. Bursts already queued on the channel collapse into one
// refetch. Refetch failures are reported through the sink and do not stop
// the loop.
func (s *Store) Sync(ctx context.Context, events <-chan store.Event) error {
	if events == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return ctx.Err()
			}
			if !drain(events) {
				_ = s.Refetch(ctx)
				return ctx.Err()
			}
			_ = s.Refetch(ctx)
		}
	}
}

// drain empties whatever is already buffered. It reports false once the
// channel is closed.
func drain(events <-chan store.Event) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
