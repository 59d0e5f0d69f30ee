package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys of the cached public projections.
const (
	KeyEnquiryBanner      = "public:settings:enquiryBanner"
	KeyLandingPage        = "public:settings:landingPage"
	KeyBlogPage           = "public:settings:blogPage"
	KeyWeekendGetawayPage = "public:settings:weekendGetawayPage"
	KeyActiveSections     = "public:trekSections:active"
)

// SettingsKeys are the entries derived from the settings document.
var SettingsKeys = []string{KeyEnquiryBanner, KeyLandingPage, KeyBlogPage, KeyWeekendGetawayPage}

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// ICache stores JSON encoded values with a TTL.
type ICache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns an ICache over rdb. A nil client gives a cache that always misses.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) ICache {
	if rdb == nil {
		return Noop{}
	}
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dst interface{}) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys %v: %w", keys, err)
	}
	return nil
}

// Noop is an ICache that stores nothing.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) error { return ErrMiss }
func (Noop) Set(context.Context, string, interface{}) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
