package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// TestCtx returns a context carrying a discarding test logger.
func TestCtx() context.Context {
	log := slog.New(logger.NewTestHandler(slog.LevelDebug))
	return logger.ToContext(context.Background(), log)
}
