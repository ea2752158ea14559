package internal

import (
	"io"
	"log/slog"
)

// NewLogger builds the application logger: human-readable text output in
// development, JSON elsewhere. The level string comes straight from
// LOG_LEVEL; unrecognized values fall back to info rather than failing
// startup.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}

	if env == "development" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
