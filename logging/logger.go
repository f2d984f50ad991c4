// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Agents log invocation outcomes through it; the default is
// a no-op so library users opt in explicitly.
package logging

import (
	"io"
	"log/slog"
	"time"
)

// Logger is the minimal structured logging interface used throughout agentkit.
// Arguments follow the slog convention of alternating keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement Logger.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from an existing *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultLogger creates a Logger backed by slog.Default().
func NewDefaultLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewJSONLogger creates a Logger emitting JSON records to w at the given level.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

// NewTextLogger creates a Logger emitting human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

// NoOpLogger discards all log messages. It is the default for constructed
// agents so the library stays silent unless a logger is supplied.
type NoOpLogger struct{}

// Debug discards the message.
func (NoOpLogger) Debug(string, ...any) {}

// Info discards the message.
func (NoOpLogger) Info(string, ...any) {}

// Warn discards the message.
func (NoOpLogger) Warn(string, ...any) {}

// Error discards the message.
func (NoOpLogger) Error(string, ...any) {}

// LogModelCall records a provider invocation outcome with consistent keys so
// dashboards can aggregate across providers.
func LogModelCall(l Logger, provider, model string, dur time.Duration, success bool, err error) {
	if l == nil {
		return
	}
	args := []any{"provider", provider, "model", model, "duration", dur, "success", success}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("model call failed", args...)
		return
	}
	l.Info("model call completed", args...)
}
