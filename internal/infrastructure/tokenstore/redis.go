package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultKey         = "nttl:token"
)

// RedisConfig captures the settings for the Redis token backend.
type RedisConfig struct {
	Addr    string
	DB      int
	Key     string
	Timeout time.Duration
}

// RedisStore keeps the token under a single Redis key so that several
// terminals share one session. Expiry is enforced server side by the auth
// API, not by a key TTL.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and validates connectivity with a ping.
// Defaults are applied for the key and the dial timeout.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("token get: %w", err)
	}
	if token == "" {
		return "", domain.ErrNoToken
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("token set: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("token clear: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
