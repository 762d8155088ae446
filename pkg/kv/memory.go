package kv

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-memory implementation of Store. It is useful for
// tests and for hosts that accept losing engine state on restart.
// All methods are safe for concurrent use.
type MemoryStore struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) GetBool(ctx context.Context, key string) (bool, error) {
	raw, err := m.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return parseBool(raw)
}

func (m *MemoryStore) SetBool(ctx context.Context, key string, value bool) error {
	return m.Set(ctx, key, strconv.FormatBool(value))
}

func (m *MemoryStore) GetInt(ctx context.Context, key string) (int64, error) {
	raw, err := m.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return parseInt(raw)
}

func (m *MemoryStore) SetInt(ctx context.Context, key string, value int64) error {
	return m.Set(ctx, key, strconv.FormatInt(value, 10))
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Snapshot returns a copy of all stored values. Intended for tests that
// simulate a restart by seeding a fresh store.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
