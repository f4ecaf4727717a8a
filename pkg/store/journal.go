package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const journalFile = ".pending.json"

// JournalPath returns the pending-record file kept next to the data under
// base. A base that names a file (SQLite) keeps the journal beside it.
func JournalPath(base string) string {
	if base == "" {
		return ""
	}
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		return filepath.Join(filepath.Dir(base), journalFile)
	}
	return filepath.Join(base, journalFile)
}

// FileJournal keeps a single JSON document on disk. It is used to carry the
// pending undo record across CLI invocations.
type FileJournal struct {
	mu   sync.Mutex
	path string
}

// NewFileJournal returns a journal writing to path.
func NewFileJournal(path string) *FileJournal {
	return &FileJournal{path: path}
}

// Load decodes the stored document into v. It reports false when nothing is
// stored.
func (j *FileJournal) Load(v any) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.path == "" {
		return false, errors.New("store: journal path unknown")
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Save replaces the stored document with v.
func (j *FileJournal) Save(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.path == "" {
		return errors.New("store: journal path unknown")
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, j.path)
}

// Clear removes the stored document.
func (j *FileJournal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
