package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "waffle:session:"

// RedisStorage keeps session values in Redis so any replica can serve a session.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

type RedisOption func(*RedisStorage)

// WithPrefix sets the Redis key prefix. Default is DefaultRedisPrefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStorage) {
		s.prefix = prefix
	}
}

func NewRedisStorage(client *redis.Client, opts ...RedisOption) *RedisStorage {
	s := &RedisStorage{
		client: client,
		prefix: DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
