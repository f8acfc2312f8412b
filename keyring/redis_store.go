package keyring

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/adapters/redis"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/circuitBreaker"
	"github.com/sony/gobreaker"
)

// SetClient is the subset of redis set commands the store needs.
// *redis.RedisManager implements it.
type SetClient interface {
	SetAdd(ctx context.Context, key string, members ...any) (int64, error)
	SetRemove(ctx context.Context, key string, members ...any) (int64, error)
	SetIsMember(ctx context.Context, key string, member any) (bool, error)
	SetRandomMember(ctx context.Context, key string) (string, error)
	SetMembers(ctx context.Context, key string) ([]string, error)
	SetCard(ctx context.Context, key string) (int64, error)
	Close() error
}

var _ SetClient = (*redis.RedisManager)(nil)

// RedisStore keeps keys in a redis set. Every command goes through a circuit breaker.
type RedisStore struct {
	client  SetClient
	key     string
	breaker *gobreaker.CircuitBreaker
}

// NewRedisStore stores keys in the set named setKey.
func NewRedisStore(client SetClient, setKey string, logger *log.Log, opts ...circuitBreaker.Option) *RedisStore {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	settings := append([]circuitBreaker.Option{
		circuitBreaker.WithName("keyring-redis"),
		circuitBreaker.WithOnStateChange(func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				log.String("breaker", name),
				log.String("from", from.String()),
				log.String("to", to.String()))
		}),
	}, opts...)

	return &RedisStore{
		client:  client,
		key:     setKey,
		breaker: circuitBreaker.NewCircuitBreaker(settings...),
	}
}

func run[T any](s *RedisStore, op string, fn func() (T, error)) (T, error) {
	out, err := circuitBreaker.Execute(s.breaker, fn)
	if err != nil {
		var zero T
		return zero, blame.KeyringStoreError(op, err)
	}
	return out, nil
}

// Add implements Store.
func (s *RedisStore) Add(ctx context.Context, key int) (bool, error) {
	n, err := run(s, "add", func() (int64, error) {
		return s.client.SetAdd(ctx, s.key, key)
	})
	return n > 0, err
}

// Remove implements Store.
func (s *RedisStore) Remove(ctx context.Context, key int) (bool, error) {
	n, err := run(s, "remove", func() (int64, error) {
		return s.client.SetRemove(ctx, s.key, key)
	})
	return n > 0, err
}

// Contains implements Store.
func (s *RedisStore) Contains(ctx context.Context, key int) (bool, error) {
	return run(s, "contains", func() (bool, error) {
		return s.client.SetIsMember(ctx, s.key, key)
	})
}

// Random implements Store.
func (s *RedisStore) Random(ctx context.Context) (int, error) {
	member, err := circuitBreaker.Execute(s.breaker, func() (string, error) {
		m, err := s.client.SetRandomMember(ctx, s.key)
		if errors.Is(err, redis.ErrNotFound) {
			// an empty set is not a backend failure
			return "", nil
		}
		return m, err
	})
	if err != nil {
		return 0, blame.KeyringStoreError("random", err)
	}
	if member == "" {
		return 0, blame.KeyringEmptyError()
	}
	key, err := strconv.Atoi(member)
	if err != nil {
		return 0, blame.KeyringStoreError("random", err)
	}
	return key, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]int, error) {
	members, err := run(s, "list", func() ([]string, error) {
		return s.client.SetMembers(ctx, s.key)
	})
	if err != nil {
		return nil, err
	}
	keys := make([]int, 0, len(members))
	for _, m := range members {
		key, convErr := strconv.Atoi(m)
		if convErr != nil {
			return nil, blame.KeyringStoreError("list", convErr)
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// Len implements Store.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := run(s, "len", func() (int64, error) {
		return s.client.SetCard(ctx, s.key)
	})
	return int(n), err
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
