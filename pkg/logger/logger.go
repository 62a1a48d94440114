// Package logger builds the *slog.Logger used across reddit-top.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing to stderr with the given level and format.
// Level is one of "debug", "info", "warn", "error" (default "info").
// Format is "json" or "text" (default "text").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Component tags every record of l with the emitting component.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}

// ParseLevel converts a level name to slog.Level. Matching is
// case-insensitive and "warning" is accepted for "warn". Unknown values
// return LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
