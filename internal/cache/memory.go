package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Cache. Verdicts vanish when the process
// exits, which suits one-off runs and tests. The zero value is not
// usable; create instances with NewMemory.
type Memory struct {
	mu       sync.RWMutex
	verdicts map[string]bool
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{verdicts: make(map[string]bool)}
}

// Get returns the stored verdict for a page id.
func (m *Memory) Get(_ context.Context, pageID string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	verdict, ok := m.verdicts[pageID]
	return verdict, ok, nil
}

// Set stores the verdict for a page id.
func (m *Memory) Set(_ context.Context, pageID string, verdict bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verdicts[pageID] = verdict
	return nil
}

// Len returns the number of stored verdicts.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.verdicts)
}
