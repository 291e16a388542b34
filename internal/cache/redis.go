// Package cache provides an optional Redis read-through cache.
//
// The cache is strictly best-effort: if Redis is not configured or becomes
// unreachable, every operation degrades to a no-op and callers fall through
// to the origin. A cache outage must never fail a request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. A Cache with a nil client (no REDIS_ADDR, or
// Redis unreachable at startup) is valid and bypasses every operation.
type Cache struct {
	client *redis.Client
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// New connects to Redis at addr. An empty addr disables caching. If the
// initial ping fails the cache is disabled rather than failing startup.
func New(addr, password string, logger *slog.Logger) *Cache {
	if addr == "" {
		return &Cache{logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return &Cache{logger: logger}
	}

	logger.Info("redis cache connected", slog.String("addr", addr))
	return &Cache{client: client, logger: logger}
}

// Enabled reports whether a live Redis connection backs this cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// warnOnce logs the first runtime Redis failure; subsequent ones are silent
// so an outage doesn't flood the log.
func (c *Cache) warnOnce(err error) {
	if c == nil || c.logger == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warn("redis error, bypassing cache", slog.String("error", err.Error()))
	}
}

// GetJSON fetches key and unmarshals it into out. Returns false on a miss,
// on any Redis error, and when the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if !c.Enabled() {
		return false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnOnce(err)
		}
		return false
	}
	if json.Unmarshal(b, out) != nil {
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are logged once and otherwise ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.warnOnce(err)
	}
}

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
