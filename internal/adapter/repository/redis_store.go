package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "cvbuilder:"

// RedisStore keeps collections as plain string keys under a prefix.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNotFound
	}
	return b, err
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, redisPrefix+key, value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisPrefix+key).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }
