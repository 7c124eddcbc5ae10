package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// sessionPrefix namespaces session keys inside the database.
const sessionPrefix = "session/"

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// GCThreshold is the value log discard ratio that triggers a rewrite.
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 8MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 16MB
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write.
	// Default: true
	SyncWrites bool
}

// DefaultBadgerConfig returns tuning suited to a handful of small values.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCThreshold:      0.5,
		CacheSize:        8 << 20,
		ValueLogFileSize: 16 << 20,
		SyncWrites:       true,
	}
}

// BadgerStore implements Store on Badger v3.
type BadgerStore struct {
	db     *badger.DB
	dir    string
	cfg    BadgerConfig
	logger *slog.Logger

	lastGCTime       atomic.Int64 // Unix milliseconds
	gcBytesReclaimed atomic.Uint64

	metricsTotalSize  prometheus.Gauge
	metricsLastGCTime prometheus.Gauge
}

// NewBadgerStore opens or creates a Badger database in dir.
func NewBadgerStore(dir string, cfg BadgerConfig, logger *slog.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.BlockCacheSize = cfg.CacheSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.SyncWrites = cfg.SyncWrites
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storageErr("open badger", err)
	}

	logger.Debug("badger store opened", "dir", dir)

	return &BadgerStore{
		db:     db,
		dir:    dir,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Get returns the value for key.
func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", storageErr("badger get", err)
	}
	return string(value), nil
}

// Set stores value under key.
func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionPrefix+key), []byte(value))
	})
	if err != nil {
		return storageErr("badger set", err)
	}
	s.updateMetrics()
	return nil
}

// Clear removes key.
func (s *BadgerStore) Clear(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionPrefix + key))
	})
	if err != nil {
		return storageErr("badger delete", err)
	}
	s.updateMetrics()
	return nil
}

// GC rewrites value log files until no more space can be reclaimed.
// Returns bytes reclaimed (approximate).
func (s *BadgerStore) GC(ctx context.Context) (uint64, error) {
	var reclaimed uint64
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return reclaimed, fmt.Errorf("gc: %w", err)
		}
		// Badger does not report the exact count.
		reclaimed += uint64(s.cfg.ValueLogFileSize)
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcBytesReclaimed.Add(reclaimed)
	s.updateMetrics()
	return reclaimed, nil
}

// Location implements Store.
func (s *BadgerStore) Location() string { return s.dir }

// Close runs a final GC and closes the database.
func (s *BadgerStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.GC(ctx); err != nil {
		s.logger.Warn("badger gc on close failed", "error", err)
	}

	if err := s.db.Close(); err != nil {
		return storageErr("close badger", err)
	}
	return nil
}

// RegisterMetrics registers Badger size metrics with Prometheus.
// Returns the store for method chaining.
func (s *BadgerStore) RegisterMetrics(registry *prometheus.Registry) *BadgerStore {
	s.metricsTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clockschedule",
		Subsystem: "badger",
		Name:      "total_size_bytes",
		Help:      "Badger total storage size in bytes (LSM + value log)",
	})
	s.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clockschedule",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})

	registry.MustRegister(s.metricsTotalSize, s.metricsLastGCTime)
	s.updateMetrics()
	return s
}

func (s *BadgerStore) updateMetrics() {
	if s.metricsTotalSize == nil {
		return
	}
	lsm, vlog := s.db.Size()
	s.metricsTotalSize.Set(float64(lsm + vlog))
	if t := s.lastGCTime.Load(); t > 0 {
		s.metricsLastGCTime.Set(float64(t) / 1000.0)
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger is chatty at info level, so info is logged as debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
