package logger

import (
	"log/slog"
	"strings"
)

// New builds a logger with the given handler constructor. The returned
// LevelVar can be adjusted at runtime (config reloads).
func New(level string, handler func(level slog.Leveler) slog.Handler) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(level))
	return slog.New(handler(lv)), lv
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
