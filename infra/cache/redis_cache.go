package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.StatusCache using Redis, so repeat polls
// across service restarts still hit the cache.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a new RedisCache from redis.Options.
func NewRedisCache(opt *redis.Options, prefix string, logger *slog.Logger) *RedisCache {
	client := redis.NewClient(opt)
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

// Get retrieves a cached payload. A missing key is a cache miss, not
// an error.
func (r *RedisCache) Get(key string) (map[string]any, error) {
	ctx := context.Background()
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key)
	return payload, nil
}

// Set stores a payload with a TTL.
func (r *RedisCache) Set(key string, payload map[string]any, ttl time.Duration) error {
	ctx := context.Background()
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

// Delete removes a payload from the cache.
func (r *RedisCache) Delete(key string) error {
	ctx := context.Background()
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	return nil
}
