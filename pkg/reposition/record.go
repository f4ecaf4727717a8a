package reposition

import (
	"sync"
	"time"

	"tableflip.dev/agenda/pkg/store"
)

// Kind tags a Record.
type Kind string

const (
	KindNone Kind = ""
	KindMove Kind = "move"
	KindCopy Kind = "copy"
)

// Slot is where a booking sits.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Record is the single pending undoable action. A move carries ID, From and
// To; a copy carries IDs.
type Record struct {
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id,omitempty"`
	From      Slot      `json:"from,omitempty"`
	To        Slot      `json:"to,omitempty"`
	IDs       []string  `json:"ids,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether now is at or past the expiry.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Journal holds the pending record.
type Journal interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// memoryJournal keeps the record for the life of the process.
type memoryJournal struct {
	mu  sync.Mutex
	rec Record
}

// NewMemoryJournal returns an in-process Journal.
func NewMemoryJournal() Journal {
	return &memoryJournal{}
}

func (j *memoryJournal) Load() (Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rec, nil
}

func (j *memoryJournal) Save(r Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rec = r
	return nil
}

func (j *memoryJournal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rec = Record{}
	return nil
}

// fileJournal keeps the record on disk so separate CLI runs share it.
type fileJournal struct {
	f *store.FileJournal
}

// NewFileJournal returns a Journal stored as JSON at path.
func NewFileJournal(path string) Journal {
	return &fileJournal{f: store.NewFileJournal(path)}
}

func (j *fileJournal) Load() (Record, error) {
	var r Record
	ok, err := j.f.Load(&r)
	if err != nil || !ok {
		return Record{}, err
	}
	return r, nil
}

func (j *fileJournal) Save(r Record) error {
	return j.f.Save(r)
}

func (j *fileJournal) Clear() error {
	return j.f.Clear()
}
