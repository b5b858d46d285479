package metrics

import "sync"

// Memory is an in-process Sink backed by a plain map. It satisfies the
// telemetry needs of a single-instance deployment and doubles as a recording
// sink in tests.
type Memory struct {
	mu       sync.Mutex
	counters map[string]uint64
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]uint64)}
}

func (m *Memory) Inc(counter string) {
	m.mu.Lock()
	m.counters[counter]++
	m.mu.Unlock()
}

// Get returns the current value of a counter. Unknown counters read as zero.
func (m *Memory) Get(counter string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[counter]
}

// Snapshot returns a copy of all counters.
func (m *Memory) Snapshot() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}
