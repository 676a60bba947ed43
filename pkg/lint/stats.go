package lint

import "sync"

// Stats accumulates violation counts for one run.
//
// Record is the only mutator; counts and total are updated under one lock so
// the sum of per-rule counts equals the total at every observation point.
type Stats struct {
	mu     sync.Mutex
	counts map[string]int
	total  int
	sink   func(Violation)
}

// NewStats creates an empty accumulator. A non-nil sink receives every
// recorded violation while the lock is held, so it need not be goroutine-safe.
func NewStats(sink func(Violation)) *Stats {
	return &Stats{
		counts: make(map[string]int),
		sink:   sink,
	}
}

// Record counts one violation.
func (s *Stats) Record(v Violation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[v.RuleID]++
	s.total++
	if s.sink != nil {
		s.sink(v)
	}
}

// RunStats is an immutable copy of the accumulator.
type RunStats struct {
	Counts map[string]int
	Total  int
}

// Snapshot returns a consistent copy of the current counts.
func (s *Stats) Snapshot() RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.counts))
	for id, n := range s.counts {
		counts[id] = n
	}
	return RunStats{Counts: counts, Total: s.total}
}
