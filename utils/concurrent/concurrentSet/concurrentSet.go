package concurrentSet

import (
	"cmp"
	"slices"
	"sync"
)

// ConcurrentSet is a concurrent-safe set. Every mutation holds the write lock
// for exactly one element.
type ConcurrentSet[T cmp.Ordered] struct {
	mu    sync.RWMutex
	items map[T]struct{}
}

// NewConcurrentSet creates a new ConcurrentSet holding the given values.
func NewConcurrentSet[T cmp.Ordered](values ...T) *ConcurrentSet[T] {
	s := &ConcurrentSet[T]{items: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.items[v] = struct{}{}
	}
	return s
}

// Add inserts value and reports whether it was absent.
func (s *ConcurrentSet[T]) Add(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[value]; ok {
		return false
	}
	s.items[value] = struct{}{}
	return true
}

// Remove deletes value and reports whether it was present.
func (s *ConcurrentSet[T]) Remove(value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[value]; !ok {
		return false
	}
	delete(s.items, value)
	return true
}

// Contains reports whether value is in the set.
func (s *ConcurrentSet[T]) Contains(value T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[value]
	return ok
}

// Len returns the number of items in the set.
func (s *ConcurrentSet[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Range iterates over the set under the read lock. Returning false stops the walk.
func (s *ConcurrentSet[T]) Range(f func(value T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for v := range s.items {
		if !f(v) {
			return
		}
	}
}

// Sorted returns an ascending snapshot of the set.
func (s *ConcurrentSet[T]) Sorted() []T {
	s.mu.RLock()
	out := make([]T, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	s.mu.RUnlock()

	slices.Sort(out)
	return out
}
