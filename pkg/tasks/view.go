package tasks

import (
	"sort"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/month"
)

// The accessors below return copies. Callers may keep or modify them freely;
// the store's own state only changes through its operations.

// Months lists the supported months in calendar order.
func (s *Store) Months() []month.Meta {
	return s.table.Metas()
}

// Month returns the bookings of one bucket ordered by date and start time.
func (s *Store) Month(key month.Key) []booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCopy(s.buckets[key], func(*booking.Booking) bool { return true })
}

// Day returns the bookings on date ordered by start time.
func (s *Store) Day(date string) []booking.Booking {
	return s.DayExcluding(date, "")
}

// DayExcluding returns the bookings on date other than id.
func (s *Store) DayExcluding(date, id string) []booking.Booking {
	key, ok := s.table.ResolveString(date)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCopy(s.buckets[key], func(b *booking.Booking) bool {
		return b.Date == date && (id == "" || b.ID != id)
	})
}

// Find returns the booking with id from whichever bucket holds it.
func (s *Store) Find(id string) (booking.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, idx := s.locateLocked(id)
	if idx < 0 {
		return booking.Booking{}, false
	}
	return *s.buckets[key][idx].Clone(), true
}

// Snapshot copies every bucket, including empty ones.
func (s *Store) Snapshot() map[month.Key][]booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[month.Key][]booking.Booking, len(s.buckets))
	for key, list := range s.buckets {
		out[key] = sortedCopy(list, func(*booking.Booking) bool { return true })
	}
	return out
}

// Len counts the bookings held across all buckets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.buckets {
		n += len(list)
	}
	return n
}

func sortedCopy(list []*booking.Booking, keep func(*booking.Booking) bool) []booking.Booking {
	out := make([]booking.Booking, 0, len(list))
	for _, b := range list {
		if keep(b) {
			out = append(out, *b.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
