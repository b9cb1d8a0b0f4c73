package publisher

import (
	"math/rand/v2"
	"sync"

	audit "geoclock/pkg/platform/audit"
)

// Sampler thins out operations events. Compliance and security events are
// always kept.
type Sampler struct {
	mu           sync.RWMutex
	defaultRate  float64
	rateByAction map[string]float64
	draw         func() float64
}

// NewSampler keeps each operations event with probability rate, clamped to
// [0, 1].
func NewSampler(rate float64) *Sampler {
	return &Sampler{
		defaultRate:  clampRate(rate),
		rateByAction: make(map[string]float64),
		draw:         rand.Float64,
	}
}

// SetRate overrides the rate for one action.
func (s *Sampler) SetRate(action string, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByAction[action] = clampRate(rate)
}

// Keep reports whether event should be persisted.
func (s *Sampler) Keep(event audit.Event) bool {
	if s == nil || event.Category != audit.CategoryOperations {
		return true
	}
	s.mu.RLock()
	rate, ok := s.rateByAction[event.Action]
	if !ok {
		rate = s.defaultRate
	}
	s.mu.RUnlock()
	switch rate {
	case 0:
		return false
	case 1:
		return true
	}
	return s.draw() < rate
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
