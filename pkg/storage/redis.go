package storage

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/angelmondragon/spa-storefront/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	KVKey(key string) string
}

// Redis stores records as plain string keys without expiry.
type Redis struct {
	client redisClient
}

func NewRedis(client redisClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.client.KVKey(key))
	if errors.Is(err, pkgredis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.KVKey(key), value, 0)
}

func (r *Redis) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.KVKey(key))
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
