package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger writing to logW. The global
// slog default is deliberately left untouched so log lines never interleave
// with query output on the console sink.
func newLogger(level, format string, logW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(logW, opts))
	}
	return slog.New(slog.NewTextHandler(logW, opts))
}

// parseLevel maps the -log-level flag value to a slog level, defaulting
// to info for anything unrecognized.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
