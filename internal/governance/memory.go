// Package governance implements the policy decision engine, risk scoring,
// remediation advice, and the episodic memory that feeds risk scoring.
package governance

import (
	"sync"
	"time"

	"sqlgate/internal/domain"
)

// MemoryCapacity is the fixed size of the episodic buffer.
const MemoryCapacity = 10

// Memory is a bounded, ordered, in-process buffer of recent simulations.
// It is written by the execution kernel on every valid simulation and read
// by the risk scorer. Eviction is strictly oldest-first.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	records  []domain.EpisodicRecord
	capacity int
}

// NewMemory creates an empty episodic memory with the given capacity
// (0 means MemoryCapacity).
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = MemoryCapacity
	}
	return &Memory{capacity: capacity}
}

// Append records a statement and its simulation, evicting the oldest entry
// once the buffer exceeds capacity.
func (m *Memory) Append(statement string, sim *domain.SimulationResult, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, domain.EpisodicRecord{
		Statement:  statement,
		Simulation: sim,
		Timestamp:  at,
	})
	if len(m.records) > m.capacity {
		m.records = m.records[len(m.records)-m.capacity:]
	}
}

// Snapshot returns a copy of the buffer, oldest first.
func (m *Memory) Snapshot() []domain.EpisodicRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.EpisodicRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the current number of records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
