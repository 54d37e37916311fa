// internal/common/cache/cache.go

// Package cache holds derived query results keyed by dataset fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fairpay/internal/common/config"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// Cache stores opaque values. A miss is reported as ok=false with a nil error.
type Cache interface {
	Name() string
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// New builds the cache selected by cfg.Driver. rdb is only used by the redis driver.
func New(cfg config.CacheConfig, rdb *redis.Client) (Cache, error) {
	ttl := config.GetDuration(cfg.TTL)
	switch cfg.Driver {
	case config.CacheDriverNone, "":
		return NopCache{}, nil
	case config.CacheDriverMemory:
		return NewMemoryCache(cfg.Size, ttl)
	case config.CacheDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis cache selected without a redis client")
		}
		return NewRedisCache(rdb, cfg.Prefix, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %q", cfg.Driver)
	}
}

// Key joins parts with ':' after the dataset fingerprint, so entries from an older
// dataset are never served.
func Key(fingerprint string, parts ...string) string {
	return fingerprint + ":" + strings.Join(parts, ":")
}

// Fetch returns the cached JSON value for key, or calls load and stores its result.
// Cache failures are logged and otherwise ignored.
func Fetch[T any](ctx context.Context, c Cache, log logger.Logger, key string, load func() (T, error)) (T, error) {
	if raw, ok, err := c.Get(ctx, key); err != nil {
		warn(log, "get", key, err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		warn(log, "decode", key, err)
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		warn(log, "encode", key, err)
		return v, nil
	}
	if err := c.Set(ctx, key, raw); err != nil {
		warn(log, "set", key, err)
	}
	return v, nil
}

func warn(log logger.Logger, op, key string, err error) {
	if log == nil {
		return
	}
	stdErr := errors.NewCacheFailedError(op, err)
	log.Warn("Cache operation failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"key":       key,
		"error":     stdErr.Details,
	})
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Name() string { return config.CacheDriverNone }

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(context.Context, string, []byte) error { return nil }

// RedisCache stores values under a key prefix with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Name() string { return config.CacheDriverRedis }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}
