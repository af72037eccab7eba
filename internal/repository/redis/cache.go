package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "dws:catalog"
	generationKey = keyPrefix + ":gen"
)

// Store is the subset of *redis.Client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// NewClient connects to the Redis instance at url and pings it once.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ResponseCache stores serialized response bodies. Keys embed a generation
// counter, so Invalidate drops every entry at once by bumping it; stale
// entries age out through the TTL.
//
// Get resolves the generation once and hands the resolved key back to the
// caller. Set writes under that key, never under a freshly read generation:
// a body loaded before an Invalidate must land in the generation it was
// read from, where nobody will look for it again.
//
// Redis failures are logged and treated as misses. The cache never fails a
// request.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewResponseCache(store Store, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl, logger: logger}
}

// Get returns the body stored under name in the current generation and the
// resolved key to pass to Set on a miss. The key is empty when the
// generation could not be read; Set ignores it then.
func (c *ResponseCache) Get(ctx context.Context, name string) ([]byte, string, bool) {
	key, ok := c.key(ctx, name)
	if !ok {
		return nil, "", false
	}

	body, err := c.store.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false
	}
	if err != nil {
		c.logger.Warn("response cache get failed", zap.String("key", key), zap.Error(err))
		return nil, key, false
	}
	return body, key, true
}

// Set stores body under a key previously returned by Get.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if key == "" {
		return
	}
	if err := c.store.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.logger.Warn("response cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the generation so later lookups miss.
func (c *ResponseCache) Invalidate(ctx context.Context) {
	if err := c.store.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("response cache invalidate failed", zap.Error(err))
	}
}

func (c *ResponseCache) key(ctx context.Context, name string) (string, bool) {
	gen, err := c.store.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		c.logger.Warn("response cache generation read failed", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, gen, name), true
}
