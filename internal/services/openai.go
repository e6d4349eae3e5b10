package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIService implements GenerationService using the OpenAI chat
// completions API. Structured output uses function calling with a forced
// tool choice.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

var _ GenerationService = (*OpenAIService)(nil)

func NewOpenAIService(apiKey string, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		logger:    logger,
	}
}

// NewOpenAIServiceWithClient injects a pre-configured client, used by tests
// to point at a stub server.
func NewOpenAIServiceWithClient(client *openai.Client, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}
}

func (o *OpenAIService) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	temperature := float32(req.Temperature)
	apiReq := openai.ChatCompletionRequest{
		Model:       o.modelName,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}

	if req.Schema != nil {
		apiReq.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Parameters:  req.Schema.Definition,
			},
		}}
		apiReq.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: req.Schema.Name},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &BackendError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
		}
		return nil, &BackendError{Provider: "openai", Message: "request failed", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &BackendError{Provider: "openai", Message: "no choices in response"}
	}
	choice := resp.Choices[0]

	if req.Schema != nil {
		for _, call := range choice.Message.ToolCalls {
			if call.Function.Name == req.Schema.Name {
				return &GenerationResult{Structured: json.RawMessage(call.Function.Arguments)}, nil
			}
		}
		return nil, &BackendError{Provider: "openai", Message: "no " + req.Schema.Name + " tool call in response"}
	}

	if choice.Message.Content == "" {
		return nil, &BackendError{Provider: "openai", Message: "empty response"}
	}

	return &GenerationResult{Text: choice.Message.Content}, nil
}
