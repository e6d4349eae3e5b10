package services

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory Cache implementation for testing.
type MockCache struct {
	GetFunc  func(ctx context.Context, key string) (string, error)
	SetFunc  func(ctx context.Context, key string, value string, expiration time.Duration) error
	PingFunc func(ctx context.Context) error

	data map[string]string
	mu   sync.Mutex
}

var _ Cache = (*MockCache)(nil)

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	fn := m.GetFunc
	value := m.data[key]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key)
	}
	return value, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	fn := m.SetFunc
	if fn == nil {
		m.data[key] = value
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockCache) Close() error {
	return nil
}

// SetPingError sets up the mock to fail Ping with err
func (m *MockCache) SetPingError(err error) {
	m.PingFunc = func(ctx context.Context) error {
		return err
	}
}
