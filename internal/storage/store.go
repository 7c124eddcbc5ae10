package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Store is durable key-value storage for session values.
type Store interface {
	// Get returns the value for key, or domain.ErrTokenNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error

	// Location describes where values are kept.
	Location() string

	// Close releases the backend.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of memory, file, badger. Default: file.
	Backend string

	// Dir is the state directory. Default: ~/.clockschedule.
	Dir string

	// Badger tuning, used by the badger backend only.
	Badger BadgerConfig
}

// DefaultDir returns ~/.clockschedule, or a relative .clockschedule when the
// home directory cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clockschedule"
	}
	return filepath.Join(home, ".clockschedule")
}

// Open opens the configured backend.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(dir)
	case BackendBadger:
		badgerCfg := cfg.Badger
		if badgerCfg == (BadgerConfig{}) {
			badgerCfg = DefaultBadgerConfig()
		}
		return NewBadgerStore(filepath.Join(dir, "badger"), badgerCfg, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

func storageErr(op string, err error) error {
	return domain.ErrStorage.WithDetails(op).WithCause(err)
}
