package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key or set member is not found in Redis.
// This provides a distinct error type compared to the underlying redis.Nil.
var ErrNotFound = errors.New("rediswrapper: key not found")

// Config holds the configuration for the Redis wrapper.
type Config struct {
	Addr        string        `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db" validate:"gte=0"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// NewConfig returns the local default configuration.
func NewConfig() *Config {
	return &Config{
		Addr:        "localhost:6379",
		DialTimeout: 5 * time.Second,
	}
}

// RedisManager provides a simplified interface over the go-redis client.
type RedisManager struct {
	client redis.UniversalClient
}

// NewRedisWrapper creates and initializes a new RedisManager.
// It pings the Redis server to ensure connectivity.
func NewRedisWrapper(ctx context.Context, cfg Config) (*RedisManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisManager{client: rdb}, nil
}

// NewRedisManagerFromClient wraps an existing client, e.g. a cluster client.
func NewRedisManagerFromClient(client redis.UniversalClient) *RedisManager {
	return &RedisManager{client: client}
}

// Client returns the underlying go-redis client instance for advanced use cases.
func (rw *RedisManager) Client() redis.UniversalClient {
	return rw.client
}

// Ping checks the connection.
func (rw *RedisManager) Ping(ctx context.Context) error {
	return rw.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client connection.
func (rw *RedisManager) Close() error {
	if rw.client != nil {
		return rw.client.Close()
	}
	return nil
}

// === Set Operations ===

// SetAdd adds members to the set at key and returns how many were new (SADD).
func (rw *RedisManager) SetAdd(ctx context.Context, key string, members ...any) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	added, err := rw.client.SAdd(ctx, key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add to set %s: %w", key, err)
	}
	return added, nil
}

// SetRemove removes members from the set at key (SREM).
func (rw *RedisManager) SetRemove(ctx context.Context, key string, members ...any) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	removed, err := rw.client.SRem(ctx, key, members...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to remove from set %s: %w", key, err)
	}
	return removed, nil
}

// SetIsMember reports whether member belongs to the set at key (SISMEMBER).
func (rw *RedisManager) SetIsMember(ctx context.Context, key string, member any) (bool, error) {
	ok, err := rw.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check membership in set %s: %w", key, err)
	}
	return ok, nil
}

// SetRandomMember returns one random member (SRANDMEMBER).
// Returns ErrNotFound if the set is empty or missing.
func (rw *RedisManager) SetRandomMember(ctx context.Context, key string) (string, error) {
	val, err := rw.client.SRandMember(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to pick from set %s: %w", key, err)
	}
	return val, nil
}

// SetMembers returns every member of the set at key (SMEMBERS).
func (rw *RedisManager) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := rw.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list set %s: %w", key, err)
	}
	return members, nil
}

// SetCard returns the size of the set at key (SCARD).
func (rw *RedisManager) SetCard(ctx context.Context, key string) (int64, error) {
	n, err := rw.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count set %s: %w", key, err)
	}
	return n, nil
}

// Delete removes one or more keys.
func (rw *RedisManager) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	deletedCount, err := rw.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return deletedCount, nil
}
