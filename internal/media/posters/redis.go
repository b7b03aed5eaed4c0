package posters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "posters:"

// RedisConfig configures NewRedisStorage.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStorage keeps each poster as a Redis string value.
type RedisStorage struct {
	client redis.UniversalClient
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage connects to Redis and verifies the connection.
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.Addr},
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		MaxRetries:   2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{client: client}, nil
}

// Put replaces the value at key with a single SET.
func (s *RedisStorage) Put(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("store poster: %w", err)
	}
	return nil
}

// Open fetches the value at key.
func (s *RedisStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read poster: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Ping pings the server.
func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
