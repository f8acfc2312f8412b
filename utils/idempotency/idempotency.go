// Package idempotency remembers recently seen ids so redelivered events are
// handled once.
package idempotency

import (
	"sync"
	"time"
)

// Tracker records ids for a retention window. A background sweep drops ids
// older than the window.
type Tracker[K comparable] struct {
	mu        sync.Mutex
	seen      map[K]time.Time
	retention time.Duration
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

// NewTracker starts a tracker that forgets ids after retention.
func NewTracker[K comparable](retention time.Duration) *Tracker[K] {
	t := &Tracker[K]{
		seen:      make(map[K]time.Time),
		retention: retention,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	go t.sweepLoop()
	return t
}

func (t *Tracker[K]) sweepLoop() {
	ticker := time.NewTicker(t.retention)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// Sweep drops every id recorded longer ago than the retention window.
func (t *Tracker[K]) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-t.retention)
	for id, at := range t.seen {
		if at.Before(cutoff) {
			delete(t.seen, id)
		}
	}
}

// MarkIfNew records id and reports true, or reports false when id was
// already recorded inside the window.
func (t *Tracker[K]) MarkIfNew(id K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if at, ok := t.seen[id]; ok && t.now().Sub(at) <= t.retention {
		return false
	}
	t.seen[id] = t.now()
	return true
}

// Seen reports whether id is recorded.
func (t *Tracker[K]) Seen(id K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[id]
	return ok
}

// Len is the number of ids currently held.
func (t *Tracker[K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Close stops the sweep. It is safe to call more than once.
func (t *Tracker[K]) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}
