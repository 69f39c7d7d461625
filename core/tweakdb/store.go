package tweakdb

import (
	"sort"
	"strings"
	"sync"
)

// Store defines the interface for tunable store operations.
// Values are float64, bool, string or []string.
type Store interface {
	// Get returns the value at path, or false if the path is absent.
	Get(path string) (any, bool)
	// Set writes the value at path, creating it if absent.
	Set(path string, value any)
	// Paths returns all known paths sharing the given prefix, sorted.
	Paths(prefix string) []string
}

// Memory is the in-memory Store implementation.
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

// Get returns the value at path.
func (m *Memory) Get(path string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[path]
	return v, ok
}

// Set writes the value at path.
func (m *Memory) Set(path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[path] = value
}

// Paths returns all paths sharing the prefix, sorted for deterministic output.
func (m *Memory) Paths(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0)
	for p := range m.values {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of the full path/value map. Used by tests to
// compare store states before and after apply operations.
func (m *Memory) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
