// Package logger provides structured logging for liftoff.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file and directory permissions (owner only).
const (
	LogFilePermissions = 0o600
	LogDirPermissions  = 0o700
)

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// Rotation controls log file rotation.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SlogAdapter implements Logger on top of log/slog with a LineHandler.
type SlogAdapter struct {
	log     *slog.Logger
	handler *LineHandler
}

// NewFileLogger creates a logger writing to a size-rotated file at path.
func NewFileLogger(path string, level Level, rotation Rotation) (*SlogAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(path), LogDirPermissions); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	// lumberjack opens lazily; touch the file so permission problems surface here.
	//nolint:gosec // G304: path comes from XDG state dir or LIFTOFF_LOG_FILE
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	_ = f.Close()

	return NewLogger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
	}, level), nil
}

// NewFileLoggerWithWriter creates a logger with a custom writer, with the
// level derived from debug and trace flags.
func NewFileLoggerWithWriter(w io.Writer, debugMode, traceMode bool) *SlogAdapter {
	return NewLogger(w, LevelFromFlags(debugMode, traceMode))
}

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level Level) *SlogAdapter {
	h := NewLineHandler(w, level)

	return &SlogAdapter{log: slog.New(h), handler: h}
}

// Debug logs debug-level messages.
func (l *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *SlogAdapter) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *SlogAdapter) Error(msg string, keysAndValues ...any) {
	l.log.Error(msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{log: l.log.With(keysAndValues...), handler: l.handler}
}

// Close flushes and closes the underlying writer.
func (l *SlogAdapter) Close() error {
	return l.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
