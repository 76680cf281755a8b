package settings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "formdesk:option:"

// CachedStore is a read-through Redis cache in front of another option
// store. Cache trouble degrades to the inner store; only positive values are
// cached so newly set options appear within one TTL.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a Redis cache.
func NewCached(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (s *CachedStore) GetOption(ctx context.Context, name string) (string, error) {
	key := cacheKeyPrefix + name

	cached, err := s.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "option cache read failed", "option", name, "error", err)
	}

	value, err := s.inner.GetOption(ctx, name)
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "option cache write failed", "option", name, "error", err)
	}
	return value, nil
}

// Invalidate drops one option from the cache.
func (s *CachedStore) Invalidate(ctx context.Context, name string) {
	if err := s.client.Del(ctx, cacheKeyPrefix+name).Err(); err != nil {
		s.logger.WarnContext(ctx, "option cache invalidate failed", "option", name, "error", err)
	}
}
