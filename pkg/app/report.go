package app

import (
	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/price"
	"tableflip.dev/agenda/pkg/timeutil"
)

// ReportSection totals one month.
type ReportSection struct {
	Month       month.Meta        `json:"month"`
	Bookings    []booking.Booking `json:"bookings"`
	Completed   int               `json:"completed"`
	Total       string            `json:"total"`
	Paid        string            `json:"paid"`
	Outstanding string            `json:"outstanding"`
}

// ReportResult summarizes earnings for a date range.
type ReportResult struct {
	Since       string          `json:"since"`
	Until       string          `json:"until"`
	Sections    []ReportSection `json:"sections"`
	Count       int             `json:"count"`
	Total       string          `json:"total"`
	Paid        string          `json:"paid"`
	Outstanding string          `json:"outstanding"`
}

// Report groups the bookings dated between since and until (inclusive) by
// month and totals their prices. Outstanding counts completed bookings that
// are not paid yet.
func (s *Service) Report(since, until string) (ReportResult, error) {
	from, err := timeutil.ParseDate(since)
	if err != nil {
		return ReportResult{}, err
	}
	to, err := timeutil.ParseDate(until)
	if err != nil {
		return ReportResult{}, err
	}
	if from.After(to) {
		from, to = to, from
		since, until = until, since
	}

	res := ReportResult{Since: since, Until: until}
	var all, paid, owed []string
	snap := s.Tasks.Snapshot()
	for _, meta := range s.Tasks.Months() {
		sec := ReportSection{Month: meta}
		var mAll, mPaid, mOwed []string
		for _, b := range snap[meta.Key] {
			d, err := timeutil.ParseDate(b.Date)
			if err != nil || d.Before(from) || d.After(to) {
				continue
			}
			sec.Bookings = append(sec.Bookings, b)
			mAll = append(mAll, b.Price)
			if b.Completed {
				sec.Completed++
			}
			switch {
			case b.Paid:
				mPaid = append(mPaid, b.Price)
			case b.Completed:
				mOwed = append(mOwed, b.Price)
			}
		}
		if len(sec.Bookings) == 0 {
			continue
		}
		sec.Total = price.Sum(mAll...)
		sec.Paid = price.Sum(mPaid...)
		sec.Outstanding = price.Sum(mOwed...)
		res.Sections = append(res.Sections, sec)
		res.Count += len(sec.Bookings)
		all = append(all, mAll...)
		paid = append(paid, mPaid...)
		owed = append(owed, mOwed...)
	}
	res.Total = price.Sum(all...)
	res.Paid = price.Sum(paid...)
	res.Outstanding = price.Sum(owed...)
	return res, nil
}
