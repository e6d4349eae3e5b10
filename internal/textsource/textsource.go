// Package textsource acquires raw source text for quiz generation, either
// from an uploaded PDF or by scraping Wikipedia for a topic. Each
// acquisition path fails open: errors are logged and yield an empty string,
// which the pipeline treats as a precondition failure.
package textsource

import (
	"log/slog"
	"net/http"
	"time"

	"context"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

const (
	defaultWikiBaseURL = "https://en.wikipedia.org"
	defaultMaxChars    = 16000
)

// Request names the text source. PDFPath takes precedence when both are
// set.
type Request struct {
	Topic   string
	PDFPath string
}

// Source implements the acquireText collaborator.
type Source struct {
	llm        services.GenerationService
	cache      services.Cache
	httpClient *http.Client
	logger     *slog.Logger

	baseURL   string
	userAgent string
	maxChars  int
}

// New creates a Source. The user agent is required by the Wikipedia API
// etiquette and should identify the deployment.
func New(llm services.GenerationService, cache services.Cache, logger *slog.Logger, userAgent string) *Source {
	return &Source{
		llm:   llm,
		cache: cache,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		baseURL:   defaultWikiBaseURL,
		userAgent: userAgent,
		maxChars:  defaultMaxChars,
	}
}

// Acquire produces raw source text for the request. A failing path degrades
// to an empty result rather than an error; the only error is a request that
// names no source at all.
func (s *Source) Acquire(ctx context.Context, req Request) (string, error) {
	if req.PDFPath == "" && req.Topic == "" {
		return "", &quiz.ValidationError{Field: "source", Message: "either a topic or a PDF is required"}
	}

	if req.PDFPath != "" {
		text, err := ExtractPDF(req.PDFPath)
		if err != nil {
			s.logger.Warn("PDF extraction failed", "path", req.PDFPath, "error", err)
		} else if text != "" {
			return s.clamp(text), nil
		}
	}

	if req.Topic != "" {
		return s.clamp(s.fromWikipedia(ctx, req.Topic)), nil
	}
	return "", nil
}

func (s *Source) clamp(text string) string {
	runes := []rune(text)
	if len(runes) > s.maxChars {
		return string(runes[:s.maxChars])
	}
	return text
}
