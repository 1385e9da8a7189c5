package storage

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore keeps values in process memory only.
func NewMemoryStore() Store {
	return codec{raw: &memoryBackend{data: make(map[string][]byte)}}
}

func (m *memoryBackend) getRaw(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryBackend) setRaw(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memoryBackend) removeRaw(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
