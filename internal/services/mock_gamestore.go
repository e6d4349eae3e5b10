package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/quizfighter/quiz-engine/pkg/games"
)

// MockGameStore is a mock implementation of GameStore for testing.
type MockGameStore struct {
	ListGamesFunc func(ctx context.Context) ([]games.GameRecord, error)
	PingFunc      func(ctx context.Context) error

	// Games backs the default behavior of all methods
	Games []games.GameRecord

	// Track calls for testing
	ListGamesCallCount int

	mu sync.Mutex // protects all fields above
}

var _ GameStore = (*MockGameStore)(nil)

// NewMockGameStore creates a mock store pre-seeded with records
func NewMockGameStore(records ...games.GameRecord) *MockGameStore {
	return &MockGameStore{Games: records}
}

func (m *MockGameStore) ListGames(ctx context.Context) ([]games.GameRecord, error) {
	m.mu.Lock()
	m.ListGamesCallCount++
	fn := m.ListGamesFunc
	out := make([]games.GameRecord, len(m.Games))
	copy(out, m.Games)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return out, nil
}

func (m *MockGameStore) GetGame(ctx context.Context, id string) (*games.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Games {
		if m.Games[i].ID == id {
			rec := m.Games[i]
			return &rec, nil
		}
	}
	return nil, &StoreError{Op: "get", Err: fmt.Errorf("game %s not found", id)}
}

func (m *MockGameStore) PutGame(ctx context.Context, rec *games.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Games {
		if m.Games[i].ID == rec.ID {
			m.Games[i] = *rec
			return nil
		}
	}
	m.Games = append(m.Games, *rec)
	return nil
}

func (m *MockGameStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	fn := m.PingFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *MockGameStore) Close() error {
	return nil
}

// SetListGamesError sets up the mock to fail every ListGames call
func (m *MockGameStore) SetListGamesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListGamesFunc = func(ctx context.Context) ([]games.GameRecord, error) {
		return nil, err
	}
}
