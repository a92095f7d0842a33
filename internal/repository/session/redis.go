package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// keyPrefix namespaces every session key in redis.
const keyPrefix = "notif-panel:session:"

// RedisStorage keeps session values in redis under a per-session prefix.
// Every write refreshes the TTL, so an abandoned session expires on its own.
type RedisStorage struct {
	// client is the redis connection.
	client redis.UniversalClient
	// id is the unique session identifier.
	id string
	// ttl is the lifetime of the session keys.
	ttl time.Duration
}

// NewRedisStorage starts a new session on the redis server at addr.
func NewRedisStorage(addr string, ttl time.Duration) *RedisStorage {
	//nolint:exhaustruct // Defaults are fine for the remaining options.
	client := redis.NewClient(&redis.Options{Addr: addr})

	return NewRedisStorageWithClient(client, uuid.NewString(), ttl)
}

// NewRedisStorageWithClient uses an existing client and session id.
func NewRedisStorageWithClient(client redis.UniversalClient, id string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		id:     id,
		ttl:    ttl,
	}
}

// ID returns the session identifier.
func (s *RedisStorage) ID() string {
	return s.id
}

// Get returns the value stored under key.
func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.HGet(ctx, s.hashKey(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

// Set stores value under key and refreshes the session TTL.
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey(), key, value)
		pipe.Expire(ctx, s.hashKey(), s.ttl)

		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Close deletes the session keys and releases the connection.
func (s *RedisStorage) Close(ctx context.Context) error {
	delErr := s.client.Del(ctx, s.hashKey()).Err()
	closeErr := s.client.Close()

	if delErr != nil {
		return fmt.Errorf("redis delete session: %w", delErr)
	}

	if closeErr != nil {
		return fmt.Errorf("redis close: %w", closeErr)
	}

	return nil
}

// hashKey returns the redis hash holding this session's values.
func (s *RedisStorage) hashKey() string {
	return keyPrefix + s.id
}
