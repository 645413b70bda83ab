// Package redis provides a Redis implementation of the QueryCache port.
//
// This adapter stores query results in Redis with configurable TTL for
// automatic expiration. Keys are namespaced with a configurable prefix so
// multiple deployments can share one Redis instance.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Synthetixio/v3-data/internal/ports/outbound"
)

// Compile-time check that QueryCache implements outbound.QueryCache
var _ outbound.QueryCache = (*QueryCache)(nil)

// Config holds Redis cache configuration.
type Config struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string
	// Password for Redis authentication (empty for no auth)
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// TTL is how long cached data lives before expiring
	TTL time.Duration
	// KeyPrefix is prepended to all cache keys
	KeyPrefix string
}

// ConfigDefaults returns sensible defaults for Redis cache configuration.
func ConfigDefaults() Config {
	return Config{
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		TTL:       5 * time.Minute,
		KeyPrefix: "v3-data",
	}
}

// QueryCache is a Redis implementation of the outbound.QueryCache port.
type QueryCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewQueryCache creates a new Redis query cache.
func NewQueryCache(cfg Config, logger *slog.Logger) (*QueryCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "redis-cache")

	return &QueryCache{
		client:    client,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger,
	}, nil
}

// Ping checks the Redis connection.
func (c *QueryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *QueryCache) Close() error {
	return c.client.Close()
}

func (c *QueryCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, key)
}

// Get retrieves a cached value. A missing key returns nil without error.
func (c *QueryCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached query: %w", err)
	}
	return data, nil
}

// Set stores a value with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, key string, data json.RawMessage) error {
	if err := c.client.Set(ctx, c.key(key), []byte(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache query: %w", err)
	}
	return nil
}

// Delete removes a cached entry.
func (c *QueryCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached query: %w", err)
	}
	return nil
}
