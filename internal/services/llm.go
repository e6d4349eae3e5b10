package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// Schema describes the structured-output contract for a generation call.
// Definition is a JSON Schema object; providers translate it into their
// native tool/function-calling format so output is schema-validated rather
// than free-text parsed.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// GenerationRequest is a single call to the text-generation backend. When
// Schema is nil the result is plain text; otherwise the backend is forced to
// answer through the named tool and Structured carries its arguments.
type GenerationRequest struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// GenerationResult is the outcome of a successful generation call.
type GenerationResult struct {
	Text       string
	Structured json.RawMessage
}

// GenerationService defines the interface for the text-generation backend.
type GenerationService interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

// BackendError wraps any generation failure: network, auth, rate limiting,
// or malformed output. Callers retry it per their retry policy and then
// degrade to a fallback value; it is never fatal to a pipeline run.
type BackendError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s backend error", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
