package services

import (
	"context"
	"encoding/json"
	"sync"
)

// MockGenerationService is a mock implementation of GenerationService for
// testing.
type MockGenerationService struct {
	GenerateFunc func(ctx context.Context, req GenerationRequest) (*GenerationResult, error)

	// Track calls for testing
	GenerateCalls []GenerationRequest

	mu sync.Mutex // protects all fields above
}

var _ GenerationService = (*MockGenerationService)(nil)

// NewMockGenerationService creates a new mock generation service
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{
		GenerateCalls: make([]GenerationRequest, 0),
	}
}

func (m *MockGenerationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	// Default behavior - empty but well-formed output
	if req.Schema != nil {
		return &GenerationResult{Structured: json.RawMessage(`{}`)}, nil
	}
	return &GenerationResult{Text: "mock response"}, nil
}

// SetGenerateError sets up the mock to fail every call with err
func (m *MockGenerationService) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
		return nil, err
	}
}

// CallCount returns the number of Generate calls in a thread-safe way
func (m *MockGenerationService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// Calls returns a copy of the recorded requests in a thread-safe way
func (m *MockGenerationService) Calls() []GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]GenerationRequest, len(m.GenerateCalls))
	copy(calls, m.GenerateCalls)
	return calls
}

// Reset clears all call tracking
func (m *MockGenerationService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = make([]GenerationRequest, 0)
	m.GenerateFunc = nil
}
