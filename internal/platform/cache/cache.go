package cache

import (
	"context"
	"fmt"
	"time"

	"libraryapi/internal/config"
)

// Cache is implemented by Memory and Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the cache selected by cfg.Driver. It returns nil, nil for the
// none driver.
func Open(ctx context.Context, cfg config.Cache) (Cache, error) {
	switch cfg.Driver {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		return NewMemory(cfg.MemoryMaxBytes)
	case config.CacheRedis:
		return NewRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
