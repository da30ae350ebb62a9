package cache

import (
	"context"
	"sync"
	"time"

	"PortfolioPulse/internal/model"
)

type memoryEntry struct {
	series  model.PriceSeries
	expires time.Time
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) (model.PriceSeries, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return model.PriceSeries{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.items, key)
		return model.PriceSeries{}, false, nil
	}
	return e.series, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, series model.PriceSeries, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{series: series, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
