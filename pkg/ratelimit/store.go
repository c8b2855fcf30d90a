package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store holds the admitted-call log for each upstream.
//
// Reserve must be atomic: it either records a call start at now and returns
// a zero wait, or records nothing and returns how long until the oldest
// admitted call leaves the window.
type Store interface {
	Reserve(ctx context.Context, upstream string, window Window, now time.Time) (time.Duration, error)
}

// MemoryStore keeps window state in process memory.
// Safe for concurrent use by many goroutines of one process.
type MemoryStore struct {
	mu   sync.Mutex
	logs map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string][]time.Time)}
}

// Reserve implements Store.
func (s *MemoryStore) Reserve(_ context.Context, upstream string, window Window, now time.Time) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window.Period)
	calls := s.logs[upstream]

	expired := 0
	for expired < len(calls) && !calls[expired].After(cutoff) {
		expired++
	}
	if expired > 0 {
		calls = append(calls[:0:0], calls[expired:]...)
	}

	if len(calls) < window.MaxCalls {
		s.logs[upstream] = append(calls, now)
		return 0, nil
	}

	s.logs[upstream] = calls
	return calls[0].Sub(cutoff), nil
}

// InFlight returns the number of call starts currently inside the window.
func (s *MemoryStore) InFlight(upstream string, window Window, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window.Period)
	n := 0
	for _, ts := range s.logs[upstream] {
		if ts.After(cutoff) {
			n++
		}
	}
	return n
}
