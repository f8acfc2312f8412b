package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Felo0o0/PrimeSecure/utils/cache"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	var c cache.Cache[string, int] = cache.NewLRUCache[string, int](cache.CacheConfig{MaxSize: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	assert.Equal(t, 1, c.Len())
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestLRUCacheExpires(t *testing.T) {
	c := cache.NewLRUCache[int, string](cache.CacheConfig{MaxSize: 4, TTL: 20 * time.Millisecond})
	c.Set(1, "one")
	_, ok := c.Get(1)
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get(1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
