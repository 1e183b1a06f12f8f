package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryKV is an in-process KV, used in tests and dry runs.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	writes int
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]json.RawMessage)}
}

// Get implements KV.
func (m *MemoryKV) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]json.RawMessage)
	if len(keys) == 0 {
		for k, v := range m.values {
			result[k] = v
		}
		return result, nil
	}
	for _, key := range keys {
		if raw, ok := m.values[key]; ok {
			result[key] = raw
		}
	}
	return result, nil
}

// Set implements KV.
func (m *MemoryKV) Set(ctx context.Context, items map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range items {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		m.values[key] = raw
	}
	m.writes++
	return nil
}

// Writes reports how many Set calls have succeeded.
func (m *MemoryKV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
