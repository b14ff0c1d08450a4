package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/go-redis/redis/v8"

	"github.com/spender-app/spender/internal/calculator"
)

const balancesKey = "spender:balances"

// Config is the redis configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements the Cache interface for redis, so multiple instances
// can share one cached matrix.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates an instance of RedisCache.
func NewRedisCache(config Config) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		}),
	}
}

// Ping verifies the redis connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// GetMatrix returns the cached matrix. Redis errors and decode failures are
// treated as misses.
func (r *RedisCache) GetMatrix(ctx context.Context) (calculator.Matrix, bool) {
	val, err := r.client.Get(ctx, balancesKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("redis get failed", "error", err)
		return nil, false
	}

	var m calculator.Matrix
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		slog.Warn("failed to decode cached balances", "error", err)
		return nil, false
	}
	return m, true
}

// SetMatrix stores the matrix with the cache TTL.
func (r *RedisCache) SetMatrix(ctx context.Context, m calculator.Matrix) {
	value, err := json.Marshal(m)
	if err != nil {
		slog.Warn("failed to encode balances for cache", "error", err)
		return
	}
	if err := r.client.Set(ctx, balancesKey, value, entryTTL).Err(); err != nil {
		slog.Warn("redis set failed", "error", err)
	}
}

// Invalidate drops the cached matrix.
func (r *RedisCache) Invalidate(ctx context.Context) {
	if err := r.client.Del(ctx, balancesKey).Err(); err != nil {
		slog.Warn("redis del failed", "error", err)
	}
}
