package tokencache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"shipping/internal/core/ports"
)

// Redis is a token cache backed by a Redis instance, letting multiple
// service instances share one carrier token. Redis handles expiry via the
// key TTL.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed token cache.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var _ ports.TokenCache = (*Redis)(nil)

// Get returns the cached token, or ok=false when the key is absent.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

// Set stores the token with the given TTL.
func (r *Redis) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return r.client.Set(ctx, key, token, ttl).Err()
}
