package types

import (
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time copy of a Stats counter set.
type StatsSnapshot struct {
	Attempts       int           `json:"attempts"`
	Successes      int           `json:"successes"`
	Failures       int           `json:"failures"`
	AverageLatency time.Duration `json:"average_latency"`
}

// SuccessRate returns the fraction of attempts that succeeded, or 0 when no
// attempts have been recorded.
func (s StatsSnapshot) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Attempts)
}

// Stats tracks process-lifetime attempt counters with a running average
// latency. Each component owns its own instance so separate pipelines (and
// tests) never interfere. Safe for concurrent use.
type Stats struct {
	mu           sync.Mutex
	attempts     int
	successes    int
	failures     int
	totalLatency time.Duration
}

// NewStats creates an empty counter set.
func NewStats() *Stats {
	return &Stats{}
}

// Record adds one attempt with its outcome and latency.
func (s *Stats) Record(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if success {
		s.successes++
	} else {
		s.failures++
	}
	s.totalLatency += latency
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := StatsSnapshot{
		Attempts:  s.attempts,
		Successes: s.successes,
		Failures:  s.failures,
	}
	if s.attempts > 0 {
		snap.AverageLatency = s.totalLatency / time.Duration(s.attempts)
	}
	return snap
}

// Reset clears all counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = 0
	s.successes = 0
	s.failures = 0
	s.totalLatency = 0
}
