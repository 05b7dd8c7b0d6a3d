package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/domain"
)

const sessionKeyPrefix = "ctx:"

// RedisStore persists session turns in Redis. Values are JSON arrays so
// turn order survives the round trip exactly.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{rdb: rdb}, nil
}

// Get returns the stored turns for a session, or an empty slice if the key
// does not exist. Connectivity failures are returned, not swallowed: message
// loss should be visible to the caller.
func (s *RedisStore) Get(ctx context.Context, sessionKey string) ([]domain.Turn, error) {
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionKey).Bytes()
	if err == redis.Nil {
		return []domain.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", sessionKey, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionKey, err)
	}

	return turns, nil
}

// Set stores the full turn list for a session.
func (s *RedisStore) Set(ctx context.Context, sessionKey string, turns []domain.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sessionKey, err)
	}

	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", sessionKey, err)
	}

	return nil
}

// Delete removes all stored turns for a session.
func (s *RedisStore) Delete(ctx context.Context, sessionKey string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionKey, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
