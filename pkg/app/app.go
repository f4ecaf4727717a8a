// Package app wires configuration, persistence, the task store and the move
// protocol together so the CLI and the HTTP server share one setup.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/agenda/pkg/conflict"
	"tableflip.dev/agenda/pkg/month"
	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/reposition"
	"tableflip.dev/agenda/pkg/store"
	"tableflip.dev/agenda/pkg/tasks"
	"tableflip.dev/agenda/pkg/timeutil"
)

// Service provides high-level booking operations on a loaded store.
type Service struct {
	Config      *store.FileConfig
	Persistence store.Persistence
	Tasks       *tasks.Store
	Moves       *reposition.Protocol

	MinGap     time.Duration
	UndoWindow time.Duration
}

// Options tune Open beyond the file configuration.
type Options struct {
	Sink    notify.Sink
	Now     func() time.Time
	Journal reposition.Journal
}

// Open loads cfg (or the configuration on disk when nil), connects the
// backend and fetches every booking.
func Open(ctx context.Context, cfg *store.FileConfig, o Options) (*Service, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	p, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := NewService(ctx, cfg, p, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewService builds a Service on an already opened backend.
func NewService(ctx context.Context, cfg *store.FileConfig, p store.Persistence, o Options) (*Service, error) {
	if p == nil {
		return nil, errors.New("app: no persistence configured")
	}
	if cfg == nil {
		cfg = &store.FileConfig{}
	}
	minGap, _, err := timeutil.ParseWindow(cfg.MinGap, timeutil.DefaultMinGap)
	if err != nil {
		return nil, fmt.Errorf("app: min_gap: %w", err)
	}
	window, _, err := timeutil.ParseWindow(cfg.UndoWindow, timeutil.DefaultUndoWindow)
	if err != nil {
		return nil, fmt.Errorf("app: undo_window: %w", err)
	}
	anchor := cfg.AnchorYear
	if anchor == 0 {
		anchor = time.Now().Year()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sink == nil {
		o.Sink = notify.Discard
	}
	if o.Journal == nil {
		if cfg.Path != "" {
			o.Journal = reposition.NewFileJournal(cfg.JournalPath())
		} else {
			o.Journal = reposition.NewMemoryJournal()
		}
	}

	t := tasks.New(p, month.Default(anchor), tasks.WithSink(o.Sink), tasks.WithClock(o.Now))
	if err := t.Refetch(ctx); err != nil {
		return nil, err
	}
	return &Service{
		Config:      cfg,
		Persistence: p,
		Tasks:       t,
		Moves: reposition.New(t,
			reposition.WithClock(o.Now),
			reposition.WithUndoWindow(window),
			reposition.WithJournal(o.Journal),
		),
		MinGap:     minGap,
		UndoWindow: window,
	}, nil
}

// Close releases the backend.
func (s *Service) Close() error {
	if s.Persistence == nil {
		return nil
	}
	return s.Persistence.Close()
}

// Role returns r, or the configured default role when r is empty.
func (s *Service) Role(r string) string {
	if r != "" {
		return r
	}
	return s.Config.Role
}

// Conflicts checks c against the bookings already on its date.
func (s *Service) Conflicts(c conflict.Candidate) ([]conflict.Conflict, error) {
	return conflict.Detect(c, s.Tasks.Day(c.Date), s.MinGap)
}

// Watch keeps the store in sync with backend changes until ctx is done.
// Backends without change notification return an error.
func (s *Service) Watch(ctx context.Context) error {
	events, err := s.Persistence.Watch(ctx)
	if err != nil {
		return err
	}
	if events == nil {
		return errors.New("app: backend does not report changes")
	}
	return s.Tasks.Sync(ctx, events)
}

// Find resolves a booking by full id or unique id prefix.
func (s *Service) Find(id string) (string, error) {
	if _, ok := s.Tasks.Find(id); ok {
		return id, nil
	}
	var match string
	for _, list := range s.Tasks.Snapshot() {
		for _, b := range list {
			if id != "" && strings.HasPrefix(b.ID, id) {
				if match != "" && match != b.ID {
					return "", fmt.Errorf("app: id prefix %q is ambiguous", id)
				}
				match = b.ID
			}
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", tasks.ErrNotFound, id)
	}
	return match, nil
}
