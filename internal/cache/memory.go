package cache

import (
	"context"
	"sync"
	"time"

	"github.com/veggiemap/menuscout/internal/menu"
)

// Memory is an in-process Cache. A zero TTL disables expiry.
type Memory struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	items []menu.Item
	ts    time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]menu.Item, bool) {
	m.mu.RLock()
	e, ok := m.entries[Namespace+key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && time.Since(e.ts) > m.ttl {
		return nil, false
	}
	return e.items, true
}

func (m *Memory) Set(_ context.Context, key string, items []menu.Item) {
	m.mu.Lock()
	m.entries[Namespace+key] = memoryEntry{items: items, ts: time.Now()}
	m.mu.Unlock()
}
