// Package inmemory is the default process-local response cache: a bounded
// TTL map behind a single mutex.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Store struct {
	mu         sync.Mutex
	entries    map[string]search.CacheEntry
	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

var _ search.Cache = (*Store)(nil)

func New(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &Store{
		entries:    make(map[string]search.CacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (search.AggregateResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return search.AggregateResult{}, false
	}
	if s.now().Sub(entry.CreatedAt) > s.ttl {
		delete(s.entries, key)
		return search.AggregateResult{}, false
	}
	return entry.Result, true
}

func (s *Store) Set(_ context.Context, key string, result search.AggregateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = search.CacheEntry{Result: result, CreatedAt: s.now()}
	if len(s.entries) > s.maxEntries {
		s.sweepLocked()
	}
}

// sweepLocked removes every expired entry; callers hold the mutex.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for key, entry := range s.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// Len reports the current entry count, for tests.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
