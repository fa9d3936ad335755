package logger

import (
	"io"
	"log/slog"
)

func NewTestHandler(level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
