package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process sliding-window limiter. Allow sweeps idle keys
// at most once per window.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

// NewMemory creates an in-process limiter.
func NewMemory(cfg Config) *Memory {
	cfg.ApplyDefaults()
	return &Memory{
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a hit for key when it fits in the window.
func (m *Memory) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.window {
		m.sweep(now)
	}
	recent := prune(m.hits[key], now.Add(-m.window))
	if len(recent) >= m.limit {
		m.hits[key] = recent
		return false
	}
	m.hits[key] = append(recent, now)
	return true
}

// Sweep drops keys whose hits have all left the window.
func (m *Memory) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
}

func (m *Memory) sweep(now time.Time) {
	m.lastSweep = now
	cutoff := now.Add(-m.window)
	for key, hits := range m.hits {
		if recent := prune(hits, cutoff); len(recent) == 0 {
			delete(m.hits, key)
		} else {
			m.hits[key] = recent
		}
	}
}

// Keys returns the number of tracked keys.
func (m *Memory) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hits)
}

// prune drops hits at or before cutoff; hits are in ascending order.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
