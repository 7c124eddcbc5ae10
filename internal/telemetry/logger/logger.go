package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the logging surface handed to services and commands.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config selects where and how a logger writes.
type Config struct {
	// Level is debug, info, warn or error. Empty means warn.
	Level string
	// Format is text or json. Empty means text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// level is shared by every logger built with New, so --verbose and config
// reloads also reach loggers that were already handed out.
var level slog.LevelVar

// std backs Default until a command installs its own logger.
var std atomic.Pointer[slog.Logger]

func init() {
	level.Set(slog.LevelWarn)
	std.Store(slog.New(newHandler(os.Stderr, false)))
}

// New builds a logger from cfg and sets the shared level.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var json bool
	switch strings.ToLower(cfg.Format) {
	case "", "text":
	case "json":
		json = true
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level.Set(lvl)
	return &slogLogger{sl: slog.New(newHandler(out, json))}, nil
}

func newHandler(w io.Writer, json bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: &level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a level name to a slog level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("logger: unknown level %q", s)
}

// SetLevel changes the shared level. An unknown name leaves it unchanged.
func SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lvl)
	return nil
}

// GetLevel returns the shared level name in lower case.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

type slogLogger struct {
	sl *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{sl: l.sl.With(args...)}
}

// Slog returns the *slog.Logger behind l, for libraries that take one.
func Slog(l Logger) *slog.Logger {
	if s, ok := l.(*slogLogger); ok {
		return s.sl
	}
	return std.Load()
}

// SetDefault makes l the logger returned by Default and FromContext.
func SetDefault(l Logger) {
	if s, ok := l.(*slogLogger); ok {
		std.Store(s.sl)
	}
}

// Default returns the process logger.
func Default() Logger {
	return &slogLogger{sl: std.Load()}
}
