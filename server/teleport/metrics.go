package teleport

import (
	"sync"
)

// Metrics counts teleport outcomes and the work spent searching for safe
// points. A nil *Metrics discards everything.
type Metrics struct {
	mu sync.Mutex

	outcomes map[Outcome]uint64
	searches uint64
	probes   uint64
}

// MetricsSnapshot is a copy of the counters of Metrics.
type MetricsSnapshot struct {
	Outcomes map[Outcome]uint64
	Searches uint64
	Probes   uint64
}

// NewMetrics creates empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{outcomes: make(map[Outcome]uint64)}
}

// IncOutcome increments the counter of an outcome.
func (m *Metrics) IncOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.outcomes[o]++
	m.mu.Unlock()
}

// AddSearch records a search for a safe point that checked probes columns.
func (m *Metrics) AddSearch(probes int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.searches++
	m.probes += uint64(max(probes, 0))
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{Outcomes: map[Outcome]uint64{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Outcome]uint64, len(m.outcomes))
	for o, n := range m.outcomes {
		out[o] = n
	}
	return MetricsSnapshot{Outcomes: out, Searches: m.searches, Probes: m.probes}
}
