package storage

import (
	"context"

	"github.com/Ramsey-B/willow/pkg/redis"
)

// RedisBackend stores values as redis strings.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps a connected client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return r.client.Get(ctx, key)
}

func (r *RedisBackend) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0)
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key)
}

// ValueSize reports the stored length without transferring the value.
func (r *RedisBackend) ValueSize(ctx context.Context, key string) (int, bool, error) {
	exists, err := r.client.Exists(ctx, key)
	if err != nil || !exists {
		return 0, false, err
	}
	n, err := r.client.StrLen(ctx, key)
	if err != nil {
		return 0, false, err
	}
	return int(n), true, nil
}
