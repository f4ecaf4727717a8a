package tasks

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/notify"
)

// CreateBatch creates each draft in order and returns the canonical ids of
// the ones that succeeded. Failed drafts are reported individually and
// joined into the returned error; the rest are still created.
func (s *Store) CreateBatch(ctx context.Context, drafts []booking.Draft) ([]string, error) {
	ids := make([]string, 0, len(drafts))
	var errs []error
	for i, d := range drafts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		b, err := s.create(ctx, d)
		if err != nil {
			s.report(fmt.Sprintf("Could not create booking %d of %d", i+1, len(drafts)), err)
			errs = append(errs, err)
			continue
		}
		ids = append(ids, b.ID)
	}
	if len(ids) > 0 {
		s.sink.Notify(notify.Notice{
			Level: notify.Success,
			Title: fmt.Sprintf("%d bookings created", len(ids)),
		})
	}
	return ids, errors.Join(errs...)
}
