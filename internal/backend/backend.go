// Package backend selects and builds the storage backend the tracker
// persists into.
package backend

import (
	"fmt"

	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/storage"
)

// Type identifies a storage backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{FileBackend, SQLiteBackend, MemoryBackend}
}

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Config holds what is needed to build a backend.
type Config struct {
	Type         Type
	DataDir      string
	SQLiteDBPath string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %v)", appConfig.DataBackend, Types())
	}
	return Config{
		Type:         t,
		DataDir:      appConfig.DataDir,
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}, nil
}

// Validate checks the backend configuration for its selected type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s (valid: %v)", c.Type, Types())
	}
	switch c.Type {
	case FileBackend:
		if c.DataDir == "" {
			return fmt.Errorf("data directory is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Nothing to validate.
	}
	return nil
}

// Open builds the configured KV backend, returning it together with
// its cleanup function.
func Open(cfg Config, logger *applog.Logger) (storage.KV, CleanupFunc, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentBackend)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Type {
	case FileBackend:
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return store, store.Close, nil

	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil

	case MemoryBackend:
		store := storage.NewMemoryStore()
		logger.Info("Initialized memory backend")
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
