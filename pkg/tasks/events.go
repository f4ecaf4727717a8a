package tasks

import (
	"tableflip.dev/agenda/pkg/month"
)

// ChangeAction describes what happened to the bucket collection.
type ChangeAction int

const (
	ChangeCreate ChangeAction = iota
	ChangeUpdate
	ChangeDelete
	// ChangeReload means every bucket may have changed.
	ChangeReload
)

func (a ChangeAction) String() string {
	switch a {
	case ChangeCreate:
		return "create"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	}
	return "unknown"
}

// Event is emitted after the bucket collection changes.
type Event struct {
	Action ChangeAction
	ID     string
	Month  month.Key
	// Previous is set when an update moved the booking between buckets.
	Previous month.Key
}

// Events exposes the change channel. Events are dropped when the consumer
// falls behind.
func (s *Store) Events() <-chan Event {
	return s.eventCh
}

func (s *Store) emit(ev Event) {
	select {
	case s.eventCh <- ev:
	default:
	}
}
