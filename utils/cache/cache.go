package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache defines an interface for generic caching operations.
type Cache[K comparable, V any] interface {
	Set(key K, value V)  // Set the value associated with the given key.
	Get(key K) (V, bool) // Get the value and whether the key exists and has not expired.
	Delete(key K)        // Delete the entry associated with the given key.
	Clear()              // Clear all entries from the cache.
	Len() int            // Return the number of entries currently in the cache.
}

// CacheConfig holds configuration options for creating caches
type CacheConfig struct {
	// MaxSize bounds the number of entries; the least recently used one is evicted first
	MaxSize int
	// TTL expires entries after this long. Zero keeps them until evicted.
	TTL time.Duration
}

// DefaultLRUConfig returns a default configuration of 1000 items without expiry.
func DefaultLRUConfig() CacheConfig {
	return CacheConfig{MaxSize: 1000}
}

// LRUCache is a size bounded, optionally expiring cache backed by
// hashicorp's expirable LRU, which is safe for concurrent use.
type LRUCache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewLRUCache creates a new LRU cache from config.
func NewLRUCache[K comparable, V any](config CacheConfig) *LRUCache[K, V] {
	if config.MaxSize <= 0 {
		config.MaxSize = DefaultLRUConfig().MaxSize
	}
	return &LRUCache[K, V]{lru: expirable.NewLRU[K, V](config.MaxSize, nil, config.TTL)}
}

// Set implements Cache.
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, value)
}

// Get implements Cache.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Delete implements Cache.
func (c *LRUCache[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Clear implements Cache.
func (c *LRUCache[K, V]) Clear() {
	c.lru.Purge()
}

// Len implements Cache.
func (c *LRUCache[K, V]) Len() int {
	return c.lru.Len()
}
