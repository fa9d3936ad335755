package cache

import (
	"context"
	"crypto/tls"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
)

const redisKeyPrefix = "hisaab:"

type redisCache struct {
	client *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

func NewRedisCache(cfg RedisConfig) *redisCache {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return &redisCache{client: redis.NewClient(opts)}
}

func (r *redisCache) GetString(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.NewCacheError(key, "failed to read", err)
	}
	return val, true, nil
}

// SetString stores value without expiry; the snapshot is a fallback, not a
// TTL cache.
func (r *redisCache) SetString(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return errs.NewCacheError(key, "failed to write", err)
	}
	return nil
}

func (r *redisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
