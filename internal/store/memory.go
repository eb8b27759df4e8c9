package store

import (
	"context"
	"sync"
)

// Memory is an in-process Adapter. It is the test double for every store
// property and backs the "memory" driver.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	data       map[string]string
	failWrites bool
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements Adapter.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Adapter.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	m.data[key] = value
	return nil
}

// Remove implements Adapter.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	delete(m.data, key)
	return nil
}

// SetMany implements Batcher. Either every write lands or none do.
func (m *Memory) SetMany(_ context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return ErrWriteFailed
	}
	for _, w := range writes {
		if w.Delete {
			delete(m.data, w.Key)
			continue
		}
		m.data[w.Key] = w.Value
	}
	return nil
}

// FailWrites makes every subsequent write return ErrWriteFailed until
// called again with false. Reads keep working.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Put stores a raw value, bypassing FailWrites. Used to plant fixtures such as
// corrupted payloads.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored value for key without any decoding.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Corrupt replaces the value at key with bytes no JSON decoder accepts.
func (m *Memory) Corrupt(key string) {
	m.Put(key, "{corrupted")
}
