package storage

import (
	"context"
	"sync"
)

// Memory is an in-process KV with an optional byte quota counted over keys and values.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
}

// NewMemory returns an empty store. A quota <= 0 disables the limit.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used + len(key) + len(value)
	if prev, ok := m.data[key]; ok {
		next -= len(key) + len(prev)
	}
	if m.quota > 0 && next > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	m.used = next
	return nil
}

func (m *Memory) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.data[key]; ok {
		m.used -= len(key) + len(prev)
		delete(m.data, key)
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Used reports the number of bytes currently counted against the quota.
func (m *Memory) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
