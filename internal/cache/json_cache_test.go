package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umorjyoti/trip-sub006/internal/config"
)

type banner struct {
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

func newTestCache(t *testing.T, ttl time.Duration) (ICache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, ttl), mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got banner
	assert.ErrorIs(t, c.Get(ctx, KeyEnquiryBanner, &got), ErrMiss)

	require.NoError(t, c.Set(ctx, KeyEnquiryBanner, banner{Title: "Monsoon Sale", IsActive: true}))
	require.NoError(t, c.Get(ctx, KeyEnquiryBanner, &got))
	assert.Equal(t, banner{Title: "Monsoon Sale", IsActive: true}, got)

	require.NoError(t, c.Delete(ctx, SettingsKeys...))
	assert.ErrorIs(t, c.Get(ctx, KeyEnquiryBanner, &got), ErrMiss)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyActiveSections, []string{"a"}))
	mr.FastForward(31 * time.Second)

	var got []string
	assert.ErrorIs(t, c.Get(ctx, KeyActiveSections, &got), ErrMiss)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(KeyLandingPage, "{not json"))

	var got banner
	err := c.Get(context.Background(), KeyLandingPage, &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNewRedisCache_NilClient(t *testing.T) {
	c := NewRedisCache(nil, time.Minute)
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, KeyBlogPage, banner{}))
	var got banner
	assert.ErrorIs(t, c.Get(ctx, KeyBlogPage, &got), ErrMiss)
	assert.NoError(t, c.Delete(ctx, KeyBlogPage))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	cfg := &config.Config{RedisAddr: "127.0.0.1:1"}
	_, err := ConnectRedis(context.Background(), logr.Discard(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
	assert.NoError(t, DisconnectRedis(logr.Discard(), nil))
}
