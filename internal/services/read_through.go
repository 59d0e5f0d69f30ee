package services

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/umorjyoti/trip-sub006/internal/cache"
)

// readThrough serves key from c, falling back to load and filling the cache.
// Cache failures are logged and never fail the read.
func readThrough[T any](ctx context.Context, c cache.ICache, log logr.Logger, key string, load func() (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Error(err, "cache read failed, loading from store", "key", key)
	}

	fresh, err := load()
	if err != nil {
		return fresh, err
	}
	if err := c.Set(ctx, key, fresh); err != nil {
		log.Error(err, "cache write failed", "key", key)
	}
	return fresh, nil
}

func invalidate(ctx context.Context, c cache.ICache, log logr.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		log.Error(err, "cache invalidation failed", "keys", keys)
	}
}
