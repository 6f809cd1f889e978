package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisStateKey is the key holding the serialized ClientState.
const redisStateKey = "shopfront:client_state"

// RedisStateStore persists the ClientState as a JSON value in Redis.
// Useful when several gateway instances should share one cart/credential
// slot; last write wins, same as the file backend across tabs.
type RedisStateStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStateStore connects to Redis at addr and verifies the connection
// with a ping. addr may be a plain "host:port" or a "redis://" URL.
func NewRedisStateStore(ctx context.Context, addr string, logger *slog.Logger) (*RedisStateStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Not in "redis://..." format, use it as a simple Addr.
		opts = &redis.Options{
			Addr:         addr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &RedisStateStore{client: client, logger: logger}, nil
}

// Load reads the ClientState key. Returns DefaultState() when the key
// does not exist.
func (s *RedisStateStore) Load() (*ClientState, error) {
	val, err := s.client.Get(context.Background(), redisStateKey).Result()
	if errors.Is(err, redis.Nil) {
		s.logger.Info("no state key found, using default state")
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get state: %w", err)
	}

	var state ClientState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("parse state payload: %w", err)
	}
	return &state, nil
}

// Save writes the ClientState key, replacing any previous value.
func (s *RedisStateStore) Save(state *ClientState) error {
	state.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := s.client.Set(context.Background(), redisStateKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}

	s.logger.Debug("state saved", "backend", "redis")
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

// Compile-time check that RedisStateStore implements the Store interface.
var _ Store = (*RedisStateStore)(nil)
