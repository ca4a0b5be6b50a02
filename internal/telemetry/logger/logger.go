// Package logger provides structured logging for shardkv.
//
// It wraps log/slog with JSON or text output, a process-wide level that the
// config watcher can change at runtime, and redaction of stored values.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Output formats accepted by Config.Format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is the output format (json, text).
	Format string
	// Output is the output writer (defaults to os.Stderr).
	Output io.Writer
	// AddSource adds source file information to log entries.
	AddSource bool
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

// level is shared by every logger built by New so SetLevel reaches all of
// them, including the *slog.Logger handed to servers.
var level = new(slog.LevelVar)

// slogLogger adapts *slog.Logger to Logger.
type slogLogger struct {
	s *slog.Logger
}

// New creates a logger. It sets the process-wide level to cfg.Level and
// fails on an unknown level or format.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if !ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var h slog.Handler
	if normalizeFormat(cfg.Format) == FormatText {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	level.Set(lvl)
	return &slogLogger{s: slog.New(h)}, nil
}

func (l *slogLogger) Debug(msg string, args ...any) { l.s.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.s.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.s.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.s.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{s: l.s.With(args...)}
}

// SetLevel changes the process-wide level. Unknown names are ignored.
func SetLevel(name string) {
	if lvl, err := ParseLevel(name); err == nil {
		level.Set(lvl)
	}
}

// GetLevel returns the current process-wide level name.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

// ParseLevel converts a level name to slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", name)
	}
}

// ValidLevel reports whether name is a supported log level.
func ValidLevel(name string) bool {
	_, err := ParseLevel(name)
	return err == nil
}

// ValidFormat reports whether format is a supported output format.
// "console" is accepted as an alias for text.
func ValidFormat(format string) bool {
	switch normalizeFormat(format) {
	case FormatJSON, FormatText:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatJSON:
		return FormatJSON
	case FormatText, "console":
		return FormatText
	default:
		return f
	}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	defaultLogger.Store(&slogLogger{s: slog.Default()})
}

// Default returns the process default logger.
func Default() Logger {
	return defaultLogger.Load()
}

// SetDefault makes l the process default and installs it as the log/slog
// default, so components holding a *slog.Logger share its handler.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
		slog.SetDefault(sl.s)
	}
}

// Slog returns the *slog.Logger behind l, or slog.Default() when l was not
// created by this package.
func Slog(l Logger) *slog.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return sl.s
	}
	return slog.Default()
}
