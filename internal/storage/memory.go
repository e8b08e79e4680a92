package storage

import (
	"bytes"
	"context"

	"github.com/debemdeboas/blog-wizard/internal/cache"
)

// MemoryBackend keeps records in process memory. It satisfies the Backend
// contract but nothing survives a restart.
type MemoryBackend struct {
	records *cache.Cache[string, []byte]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: cache.NewCache[string, []byte](),
	}
}

func (m *MemoryBackend) Name() string {
	return BackendMemory
}

func (m *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	data, ok := m.records.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

func (m *MemoryBackend) Save(_ context.Context, key string, data []byte) error {
	m.records.Set(key, bytes.Clone(data))
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.records.Delete(key)
	return nil
}

func (m *MemoryBackend) Close() error {
	m.records.Clear()
	return nil
}
