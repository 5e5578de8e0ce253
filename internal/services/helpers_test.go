package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// memoryCart mimics the JSON round trip of the redis cache.
type memoryCart struct {
	mu      sync.Mutex
	data    map[string][]byte
	setErr  error
	deleted []string
	// readDelay widens the gap between a read and the following write
	readDelay time.Duration
}

func newMemoryCart() *memoryCart {
	return &memoryCart{data: map[string][]byte{}}
}

func (m *memoryCart) Get(_ context.Context, key string, value any) (bool, error) {
	m.mu.Lock()

	raw, ok := m.data[key]
	m.mu.Unlock()

	time.Sleep(m.readDelay)

	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(raw, value)
}

func (m *memoryCart) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.data[key] = raw

	return nil
}

func (m *memoryCart) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}

	return nil
}

func (m *memoryCart) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.data[key]

	return ok
}

func (m *memoryCart) Close() error { return nil }
