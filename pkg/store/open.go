package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Open creates the Persistence selected by cfg. A nil cfg loads the
// configuration from disk and the environment.
func Open(ctx context.Context, cfg Config) (Persistence, error) {
	if cfg == nil {
		fc, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = fc
	}

	var (
		p   Persistence
		err error
	)
	switch cfg.Backend() {
	case "", BackendDisk:
		p, err = NewDisk(cfg.BasePath())
	case BackendSQLite:
		dsn := cfg.DSN()
		if dsn == "" {
			dsn = filepath.Join(cfg.BasePath(), "agenda.sqlite")
		}
		p, err = NewSQLite(dsn)
	case BackendPostgres:
		if cfg.DSN() == "" {
			return nil, fmt.Errorf("store: postgres backend needs a dsn")
		}
		p, err = NewPostgres(ctx, cfg.DSN())
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
