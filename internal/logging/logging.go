// Package logging builds the slog loggers used for diagnostics.
// User-facing results are printed by the cli package, not logged.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelOff is above every standard level and disables output.
const LevelOff = slog.Level(100)

// New creates a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a JSON logger, used when --json output is requested so
// stderr stays machine-readable too.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, LevelOff)
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error, off (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "quiet":
		return LevelOff
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity lowers base by one step per -v flag.
// - verbosity=0: base
// - verbosity=1: info (if base is higher)
// - verbosity>=2: debug
func LevelFromVerbosity(base slog.Level, verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1 && base > slog.LevelInfo:
		return slog.LevelInfo
	default:
		return base
	}
}
