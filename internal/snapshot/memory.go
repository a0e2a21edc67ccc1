package snapshot

import (
	"context"
	"sync"

	"tb-go/internal/tb"
)

// memoryBlobs keeps records in process memory. Safe for concurrent use.
type memoryBlobs struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates a Store that forgets everything when the process exits.
func NewMemoryStore(sealer tb.Sealer) *Store {
	return newStore(&memoryBlobs{records: make(map[string][]byte)}, sealer)
}

func (m *memoryBlobs) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *memoryBlobs) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Close() error { return nil }
