package pipeline

import (
	"context"
	"strings"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/prompts"
)

// ThemeFallback is returned when theme summarization fails for any reason.
// This path never fails the pipeline.
const ThemeFallback = "Unable to generate theme summary."

const (
	themeMaxTokens   = 150
	themeTemperature = 0
)

// summarizeTheme issues the single theme summarization call over the full,
// untruncated source text.
func (p *Pipeline) summarizeTheme(ctx context.Context, content string) string {
	res, err := p.llm.Generate(ctx, services.GenerationRequest{
		System:      prompts.ThemeSystem,
		Prompt:      prompts.ThemeSummary(content),
		MaxTokens:   themeMaxTokens,
		Temperature: themeTemperature,
	})
	if err != nil {
		p.logger.Warn("Theme summarization failed, using fallback", "error", err)
		return ThemeFallback
	}

	theme := strings.TrimSpace(res.Text)
	if theme == "" {
		return ThemeFallback
	}
	return theme
}
