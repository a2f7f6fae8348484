package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RankingsCache keeps ranking query results in Redis for a short TTL. A nil
// *RankingsCache is a valid no-op cache, so the service runs without Redis.
type RankingsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRankingsCache builds the cache.
func NewRankingsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RankingsCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RankingsCache{client: client, ttl: ttl, logger: logger}
}

// Get unmarshals a cached payload into dest. Returns false on miss or error.
func (c *RankingsCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("rankings cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("rankings cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a payload under key. Failures are logged, never surfaced.
func (c *RankingsCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("rankings cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("rankings cache write failed", zap.String("key", key), zap.Error(err))
	}
}
