package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/hisaab-profiles/internal/config"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/store"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// RemoteStore is the shared document store selected by config.
type RemoteStore interface {
	FetchAll(ctx context.Context) (models.ProfileCollection, error)
	Set(ctx context.Context, key string, p models.Profile) error
	Subscribe(ctx context.Context, fn func(models.ProfileCollection)) error
}

// LocalCache is the per-device cache selected by config.
type LocalCache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
}

type Bootstrap struct {
	Log      *slog.Logger
	LogLevel *slog.LevelVar

	Firestore *firestore.Client
	Database  *db.Client

	Remote RemoteStore
	Cache  LocalCache

	closers []func() error
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log, bs.LogLevel = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	applicationCtx = logger.ToContext(applicationCtx, bs.Log)

	switch cfg.Remote.Backend {
	case config.RemoteRTDB:
		bs.Database, err = InitDatabase(applicationCtx, cfg.ProjectID, cfg.Remote.DatabaseURL)
		if err != nil {
			return bs, err
		}
		bs.Remote = store.NewRTDBProfileStore(bs.Database, cfg.Remote.Collection, cfg.Remote.PollInterval)
	default:
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.Firestore.Close)
		bs.Remote = store.NewFirestoreProfileStore(bs.Firestore, cfg.Remote.Collection)
	}

	bs.Cache, err = InitCache(applicationCtx, cfg.Cache)
	if err != nil {
		return bs, err
	}
	if c, ok := bs.Cache.(interface{ Close() error }); ok {
		bs.closers = append(bs.closers, c.Close)
	}

	bs.Log.Info("bootstrap complete",
		"remote", cfg.Remote.Backend,
		"collection", cfg.Remote.Collection,
		"cache", cfg.Cache.Backend)
	return bs, nil
}

// Close releases the backend clients. Errors are logged.
func (b *Bootstrap) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.Log.Error("failed to close client", "error", err)
		}
	}
	b.closers = nil
}

func unknownBackend(kind, name string) error {
	return fmt.Errorf("unknown %s backend %q", kind, name)
}
