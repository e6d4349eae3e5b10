package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/gamecode"
	"github.com/quizfighter/quiz-engine/pkg/prompts"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

const (
	configMaxTokens   = 2000
	configTemperature = 0.2
)

// mutateConfigs rewrites each matched game's config to reflect the theme
// summary. Only carriers with a game and an original config are scheduled;
// the rest pass through untouched. Every carrier leaves this stage with its
// transient fields stripped. Returns diagnostics for games whose code had no
// config declaration to replace.
func (p *Pipeline) mutateConfigs(ctx context.Context, carriers []questionCarrier, theme string) []string {
	var (
		diagMu      sync.Mutex
		diagnostics []string
	)

	g := new(errgroup.Group)
	g.SetLimit(p.opts.MaxConcurrent)

	for i := range carriers {
		c := &carriers[i]
		if c.q.GameID == nil || c.originalConfig == "" {
			continue
		}
		g.Go(func() error {
			if diag := p.mutateOne(ctx, c, theme); diag != "" {
				diagMu.Lock()
				diagnostics = append(diagnostics, diag)
				diagMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// Strip transients before the questions leave the pipeline.
	for i := range carriers {
		carriers[i].originalConfig = ""
		carriers[i].originalCode = ""
	}

	sort.Strings(diagnostics)
	return diagnostics
}

// mutateOne runs the generation call with retry, then splices the rewritten
// config into the game code. Every failure path falls back to the original,
// unmodified config and code.
func (p *Pipeline) mutateOne(ctx context.Context, c *questionCarrier, theme string) string {
	var rewritten string
	err := p.opts.Retry.Do(ctx, func(ctx context.Context) error {
		res, genErr := p.llm.Generate(ctx, services.GenerationRequest{
			System:      prompts.ConfigSystem,
			Prompt:      prompts.ConfigRewrite(theme, describeQuestion(c.q), c.originalConfig),
			MaxTokens:   configMaxTokens,
			Temperature: configTemperature,
		})
		if genErr != nil {
			return genErr
		}
		rewritten = strings.TrimSpace(res.Text)
		if rewritten == "" {
			return &services.BackendError{Provider: "generation", Message: "empty config rewrite"}
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("Config rewrite failed, keeping original config",
			"question", c.q.QuestionNumber,
			"game", *c.q.GameID,
			"error", err)
		c.q.Config = c.originalConfig
		c.q.Code = c.originalCode
		return ""
	}

	code, err := gamecode.ReplaceConfig(c.originalCode, rewritten)
	if err != nil {
		if errors.Is(err, gamecode.ErrNoConfigBlock) {
			p.logger.Warn("Game code has no config declaration",
				"question", c.q.QuestionNumber,
				"game", *c.q.GameID)
			c.q.Config = c.originalConfig
			c.q.Code = c.originalCode
			return fmt.Sprintf("question %d: game %s has no config declaration; code returned unmodified",
				c.q.QuestionNumber, *c.q.GameID)
		}
		c.q.Config = c.originalConfig
		c.q.Code = c.originalCode
		return ""
	}

	c.q.Config = gamecode.NormalizeDeclaration(rewritten)
	c.q.Code = code
	return ""
}

// describeQuestion serializes the question's non-transient fields for the
// rewrite prompt.
func describeQuestion(q quiz.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "question_number: %d\n", q.QuestionNumber)
	fmt.Fprintf(&sb, "question: %s\n", q.Question)
	fmt.Fprintf(&sb, "question_type: %s\n", q.Type)
	if len(q.Choices) > 0 {
		fmt.Fprintf(&sb, "choices: %s\n", strings.Join(q.Choices, ", "))
	}
	fmt.Fprintf(&sb, "correct_answer: %s\n", q.CorrectAnswer)
	if q.Explanation != "" {
		fmt.Fprintf(&sb, "explanation: %s\n", q.Explanation)
	}
	fmt.Fprintf(&sb, "difficulty: %s\n", q.Difficulty)
	fmt.Fprintf(&sb, "success_message: %s", q.SuccessMessage)
	return sb.String()
}
