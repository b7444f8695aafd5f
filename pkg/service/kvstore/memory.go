package kvstore

import (
	"context"
	"slices"
	"sync"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
)

// Memory keeps values in process memory. Values are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ interfaces.KVStore = &Memory{}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (m *Memory) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = slices.Clone(value)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
