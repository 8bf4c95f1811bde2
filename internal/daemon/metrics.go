package daemon

import (
	"sync"
	"time"

	"github.com/cmux-dev/cmux-envd/internal/protocol"
)

// Metrics tracks per-operation request counts, error counts, and summed
// latency, exposed through the Status response.
type Metrics struct {
	mu    sync.Mutex
	stats map[protocol.Operation]*protocol.OpStat
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{stats: make(map[protocol.Operation]*protocol.OpStat)}
}

func (m *Metrics) entry(op protocol.Operation) *protocol.OpStat {
	st, ok := m.stats[op]
	if !ok {
		st = &protocol.OpStat{}
		m.stats[op] = st
	}
	return st
}

// RecordRequest records one completed request for op, successful or not.
func (m *Metrics) RecordRequest(op protocol.Operation, dur time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.entry(op)
	st.Count++
	st.TotalDuration += dur
}

// RecordError records one failed request for op, in addition to whatever
// RecordRequest already counted for it.
func (m *Metrics) RecordError(op protocol.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(op).Errors++
}

// Snapshot returns a copy of the current per-operation stats, keyed by
// operation name for wire transport.
func (m *Metrics) Snapshot() map[string]protocol.OpStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]protocol.OpStat, len(m.stats))
	for op, st := range m.stats {
		out[string(op)] = *st
	}
	return out
}
