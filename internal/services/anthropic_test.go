package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newStubAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewAnthropicService("test-key", "test-model", testLogger())
	svc.baseURL = server.URL
	return svc
}

func TestAnthropicService_Generate_Text(t *testing.T) {
	svc := newStubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 150, req.MaxTokens)
		assert.Empty(t, req.Tools)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContentBlock{
				{Type: "text", Text: "A quiz about "},
				{Type: "text", Text: "the deep sea."},
			},
		})
	})

	res, err := svc.Generate(context.Background(), GenerationRequest{
		System:    "summarize",
		Prompt:    "some text",
		MaxTokens: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "A quiz about the deep sea.", res.Text)
}

func TestAnthropicService_Generate_Structured(t *testing.T) {
	svc := newStubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		require.Len(t, req.Tools, 1)
		assert.Equal(t, "submit_questions", req.Tools[0].Name)
		require.NotNil(t, req.ToolChoice)
		assert.Equal(t, "tool", req.ToolChoice.Type)
		assert.Equal(t, "submit_questions", req.ToolChoice.Name)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContentBlock{
				{
					Type:  "tool_use",
					Name:  "submit_questions",
					Input: json.RawMessage(`{"questions":[{"question":"Q1"}]}`),
				},
			},
		})
	})

	res, err := svc.Generate(context.Background(), GenerationRequest{
		Prompt: "make questions",
		Schema: &Schema{
			Name:       "submit_questions",
			Definition: map[string]interface{}{"type": "object"},
		},
		MaxTokens: 1000,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[{"question":"Q1"}]}`, string(res.Structured))
}

func TestAnthropicService_Generate_HTTPError(t *testing.T) {
	svc := newStubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := svc.Generate(context.Background(), GenerationRequest{Prompt: "hi", MaxTokens: 10})
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "anthropic", backendErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, backendErr.StatusCode)
}

func TestAnthropicService_Generate_MissingToolCall(t *testing.T) {
	svc := newStubAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContentBlock{
				{Type: "text", Text: "I refuse to use tools."},
			},
		})
	})

	_, err := svc.Generate(context.Background(), GenerationRequest{
		Prompt:    "make questions",
		Schema:    &Schema{Name: "submit_questions", Definition: map[string]interface{}{"type": "object"}},
		MaxTokens: 1000,
	})

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Contains(t, backendErr.Message, "submit_questions")
}
