// Package keyring keeps the pool of prime keys messages are encrypted with.
package keyring

import (
	"context"
	"slices"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/concurrent/concurrentSet"
	"github.com/Felo0o0/PrimeSecure/utils/random"
)

// Store is a set of keys. Implementations must be safe for concurrent use.
type Store interface {
	Add(ctx context.Context, key int) (bool, error)
	Remove(ctx context.Context, key int) (bool, error)
	Contains(ctx context.Context, key int) (bool, error)
	// Random returns a KeyringEmpty blame when the store holds no key.
	Random(ctx context.Context) (int, error)
	// List returns the keys in ascending order.
	List(ctx context.Context) ([]int, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore keeps keys in process memory.
type MemoryStore struct {
	keys *concurrentSet.ConcurrentSet[int]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: concurrentSet.NewConcurrentSet[int]()}
}

// Add implements Store.
func (m *MemoryStore) Add(_ context.Context, key int) (bool, error) {
	return m.keys.Add(key), nil
}

// Remove implements Store.
func (m *MemoryStore) Remove(_ context.Context, key int) (bool, error) {
	return m.keys.Remove(key), nil
}

// Contains implements Store.
func (m *MemoryStore) Contains(_ context.Context, key int) (bool, error) {
	return m.keys.Contains(key), nil
}

// Random implements Store.
func (m *MemoryStore) Random(_ context.Context) (int, error) {
	keys := m.keys.Sorted()
	if len(keys) == 0 {
		return 0, blame.KeyringEmptyError()
	}
	key, err := random.Pick(keys)
	if err != nil {
		return 0, blame.KeyringStoreError("random", err)
	}
	return key, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]int, error) {
	return slices.Clip(m.keys.Sorted()), nil
}

// Len implements Store.
func (m *MemoryStore) Len(_ context.Context) (int, error) {
	return m.keys.Len(), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
