package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names accepted by Open.
const (
	BackendDisk     = "disk"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config interface {
	BasePath() string
	Backend() string
	DSN() string
}

// FileConfig is the resolved .agenda configuration.
type FileConfig struct {
	Path       string `json:"path"`
	Store      string `json:"backend"`
	URL        string `json:"dsn,omitempty"`
	AnchorYear int    `json:"anchor_year"`
	MinGap     string `json:"min_gap"`
	UndoWindow string `json:"undo_window"`
	Role       string `json:"role,omitempty"`
	Addr       string `json:"addr"`
}

// LoadConfig reads .agenda.yaml from $AGENDA_CONFIG_PATH or the working
// directory, overlaid with AGENDA_* environment variables.
func LoadConfig() (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", "~/.agenda.db")
	v.SetDefault("backend", BackendDisk)
	v.SetDefault("anchor_year", time.Now().Year())
	v.SetDefault("min_gap", "30m")
	v.SetDefault("undo_window", "15s")
	v.SetDefault("addr", ":8080")
	v.SetConfigName(".agenda") // .yaml is implicit
	v.SetEnvPrefix("AGENDA")
	v.AutomaticEnv()

	if override := os.Getenv("AGENDA_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	cfg := &FileConfig{
		Path:       path,
		Store:      strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		URL:        v.GetString("dsn"),
		AnchorYear: v.GetInt("anchor_year"),
		MinGap:     v.GetString("min_gap"),
		UndoWindow: v.GetString("undo_window"),
		Role:       v.GetString("role"),
		Addr:       v.GetString("addr"),
	}
	switch cfg.Store {
	case BackendDisk, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store)
	}
	return cfg, nil
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) Backend() string {
	return f.Store
}

func (f *FileConfig) DSN() string {
	return f.URL
}

// JournalPath is where the pending undo record is kept between runs.
func (f *FileConfig) JournalPath() string {
	return JournalPath(f.Path)
}
