package bootstrap

import (
	"context"

	"github.com/GregMSThompson/hisaab-profiles/internal/cache"
	"github.com/GregMSThompson/hisaab-profiles/internal/config"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// InitCache opens the configured local cache. A redis cache is pinged so a
// bad address fails at startup.
func InitCache(ctx context.Context, cfg config.CacheConfig) (LocalCache, error) {
	switch cfg.Backend {
	case config.CacheFile, "":
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case config.CacheRedis:
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			UseTLS:   cfg.Redis.UseTLS,
		})
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		logger.FromContext(ctx).Info("connected to redis cache", "addr", cfg.Redis.Addr)
		return rc, nil
	default:
		return nil, unknownBackend("cache", cfg.Backend)
	}
}
