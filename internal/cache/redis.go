package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"

	"github.com/umorjyoti/trip-sub006/internal/config"
)

// ClientName is reported by CLIENT LIST for connections opened here.
const ClientName = "trek-admin-cache"

// Cached reads should fail fast and fall back to Mongo rather than stall a request.
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// ConnectRedis opens the cache connection described by cfg and pings it.
func ConnectRedis(ctx context.Context, log logr.Logger, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		ClientName:   ClientName,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Info("connected to Redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.CacheTTL.String())
	return rdb, nil
}

// DisconnectRedis closes client. A nil client is a no-op.
func DisconnectRedis(log logr.Logger, client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	log.Info("Redis connection closed")
	return nil
}
