package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "travel:"

// RedisTravelCache stores travel estimates in Redis with a TTL, for
// deployments that share one cache across service instances.
type RedisTravelCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTravelCache(client *redis.Client, ttl time.Duration) *RedisTravelCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisTravelCache{client: client, ttl: ttl}
}

func (c *RedisTravelCache) Get(ctx context.Context, key string) (int, bool, error) {
	if c.client == nil {
		return 0, false, errors.New("redis travel cache: client is nil")
	}
	if key == "" {
		return 0, false, errors.New("get travel cache: key must not be empty")
	}

	minutes, err := c.client.Get(ctx, redisKeyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: redis get %q: %w", key, err)
	}

	return minutes, true, nil
}

func (c *RedisTravelCache) Put(ctx context.Context, key string, minutes int) error {
	if c.client == nil {
		return errors.New("redis travel cache: client is nil")
	}
	if key == "" {
		return errors.New("insert travel cache: key must not be empty")
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, minutes, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert travel cache: redis set %q: %w", key, err)
	}

	return nil
}
