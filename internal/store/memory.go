package store

import (
	"context"
	"sync"

	"github.com/jonathan/candidate-insights/internal/types"
)

// Memory is an in-process store. Reads and writes copy candidates so callers
// never share state with the store.
type Memory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]types.Candidate
}

// NewMemory creates a store seeded with candidates, keeping their order.
func NewMemory(candidates []types.Candidate) *Memory {
	m := &Memory{byID: make(map[string]types.Candidate, len(candidates))}
	m.put(candidates)
	return m
}

// List returns every candidate in insertion order
func (m *Memory) List(_ context.Context) ([]types.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Candidate, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].Clone())
	}
	return out, nil
}

// Get returns a copy of one candidate, or nil when missing
func (m *Memory) Get(_ context.Context, id string) (*types.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	clone := c.Clone()
	return &clone, nil
}

// Save inserts or replaces candidates. Candidates without an id are given a
// random UUID; existing candidates keep their position.
func (m *Memory) Save(_ context.Context, candidates []types.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(candidates)
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored candidates
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

func (m *Memory) put(candidates []types.Candidate) {
	for _, c := range candidates {
		c = assignID(c.Clone())
		if _, exists := m.byID[c.ID]; !exists {
			m.order = append(m.order, c.ID)
		}
		m.byID[c.ID] = c
	}
}
