package store

import (
	"errors"
	"sync"
	"time"

	"github.com/meteoagente/weathertool/internal/weather"
)

var (
	// ErrNotFound is returned when no invocations have been recorded yet.
	ErrNotFound = errors.New("no invocations recorded")
)

// MemoryStore is a concurrency-safe in-memory record of facade
// invocations, oldest first.
type MemoryStore struct {
	mu sync.RWMutex

	invocations []weather.Invocation

	// retention configuration
	maxEntries int           // max number of invocations kept
	maxAge     time.Duration // optional max age for invocations
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// Non-positive values are treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// Record appends one invocation and enforces retention.
func (s *MemoryStore) Record(inv weather.Invocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invocations = append(s.invocations, inv)

	// Enforce retention by count.
	if s.maxEntries > 0 && len(s.invocations) > s.maxEntries {
		over := len(s.invocations) - s.maxEntries
		s.invocations = s.invocations[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.invocations); i++ {
			if !s.invocations[i].At.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.invocations = s.invocations[i:]
		}
	}
}

// Recent returns up to limit invocations, newest first. A non-positive
// limit returns everything retained.
func (s *MemoryStore) Recent(limit int) []weather.Invocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.invocations)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]weather.Invocation, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.invocations[i])
	}
	return out
}

// Latest returns the most recent invocation.
func (s *MemoryStore) Latest() (weather.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.invocations) == 0 {
		return weather.Invocation{}, ErrNotFound
	}
	return s.invocations[len(s.invocations)-1], nil
}

// Len reports how many invocations are currently retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.invocations)
}
