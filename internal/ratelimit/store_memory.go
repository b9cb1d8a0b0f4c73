package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is a single-process sliding window store.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.windows[key], now.Add(-window))

	allowed := len(stamps) < limit
	if allowed {
		stamps = append(stamps, now)
	}
	if len(stamps) == 0 {
		delete(s.windows, key)
	} else {
		s.windows[key] = stamps
	}

	resetAt := now.Add(window)
	if len(stamps) > 0 {
		resetAt = stamps[0].Add(window)
	}
	return &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(limit-len(stamps), 0),
		ResetAt:   resetAt,
	}, nil
}

// prune drops timestamps at or before cutoff. stamps is ascending.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
