// Package cache provides a small in-process TTL store. It is created by the
// caller and injected where needed; there is no package-level instance.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store holds values by fingerprint for a fixed TTL. Writes overwrite
// wholesale, last writer wins; entries past their TTL read as absent and
// staleness up to the TTL is acceptable by design.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

// NewStore creates a store whose entries live for ttl.
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get returns the value for key if present and unexpired.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, replacing any previous entry.
func (s *Store[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Clear drops every entry. Intended for tests and restarts.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[T])
}
