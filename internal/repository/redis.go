package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicefinder/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	revokedPrefix   = "revoked_token:"
	rateLimitPrefix = "rate_limit:"
)

// RedisTokenStore keeps revoked refresh tokens and attempt counters in Redis,
// so they survive restarts and are shared between instances.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisClient builds a client from config without dialing.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (r *RedisTokenStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	err := r.client.Get(ctx, revokedPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read token from redis: %w", err)
	}
	return true, nil
}

func (r *RedisTokenStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	fullKey := rateLimitPrefix + key
	count, err := r.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, fullKey, window)
	}

	return count <= int64(limit), nil
}

func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
