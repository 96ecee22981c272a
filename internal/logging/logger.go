// Package logging writes brewdesk's debug log.
//
// The interactive doctor screen owns the terminal, so nothing can be printed
// while it runs. Instead every brew invocation, store write and watcher event
// is logged as JSON to <data_dir>/debug.log for later inspection.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels accepted in the logging.level setting.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// FileName is the name of the log file inside the data directory.
const FileName = "debug.log"

// Logger is a structured JSON logger. It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	out    *output
}

// output is shared by a logger and every child derived from it with With.
type output struct {
	mu   sync.Mutex
	file *os.File
}

// NewLogger opens dir/debug.log for appending and logs at level and above.
// An empty dir logs to stderr.
func NewLogger(dir string, level string) (*Logger, error) {
	var w io.Writer = os.Stderr
	out := &output{}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out.file = f
		w = f
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{logger: slog.New(handler), out: out}, nil
}

// NopLogger returns a Logger that discards everything.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		out:    &output{},
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level names a supported level.
func ValidLevel(level string) bool {
	for _, l := range ValidLevels() {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// ValidLevels returns the supported level names.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}

// With returns a child logger that adds the given key-value pairs to every
// entry.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	return &Logger{logger: l.logger.With(args...), out: l.out}
}

// WithComponent tags entries with the subsystem that wrote them.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	l.logger.Log(context.Background(), level, msg, args...)
}

// Close syncs and closes the log file. Closing a stderr or nop logger does
// nothing.
func (l *Logger) Close() error {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file == nil {
		return nil
	}
	if err := l.out.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := l.out.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	l.out.file = nil
	return nil
}
