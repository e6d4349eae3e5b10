// Package pipeline implements the quiz generation pipeline: partition the
// source text, fan out question generation alongside a single theme
// summarization, match each question to a compatible game template, rewrite
// each matched game's config for the theme, and assemble the result.
//
// Failure isolation is the organizing principle: one segment's or question's
// backend failure degrades that unit to an empty or fallback result and
// never cancels siblings. Only two conditions surface to the caller: no
// source text (ValidationError) and zero matched questions (NoMatchError).
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
	"github.com/quizfighter/quiz-engine/pkg/textfilter"
)

const (
	// DefaultSegments is the target segment count before the ceiling is
	// applied.
	DefaultSegments = 10

	// DefaultQuestionsPerSegment is the number of questions requested per
	// generation call.
	DefaultQuestionsPerSegment = 3

	// DefaultMaxQuestions is the hard ceiling on total questions per run.
	DefaultMaxQuestions = 10

	// DefaultMaxConcurrent bounds simultaneous backend calls per fan-out
	// stage.
	DefaultMaxConcurrent = 8

	// defaultTruncateFraction is the leading fraction of the source text
	// used for question generation, bounding prompt cost.
	defaultTruncateFraction = 2.0 / 3.0
)

// Options configures a Pipeline. Zero values take defaults.
type Options struct {
	Segments            int
	QuestionsPerSegment int
	MaxQuestions        int
	MaxConcurrent       int
	TruncateFraction    float64
	Retry               RetryPolicy

	// Seed fixes the random source for deterministic tests. Zero seeds
	// from the clock.
	Seed int64
}

func (o Options) withDefaults() Options {
	if o.Segments <= 0 {
		o.Segments = DefaultSegments
	}
	if o.QuestionsPerSegment <= 0 {
		o.QuestionsPerSegment = DefaultQuestionsPerSegment
	}
	if o.MaxQuestions <= 0 {
		o.MaxQuestions = DefaultMaxQuestions
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.TruncateFraction <= 0 || o.TruncateFraction > 1 {
		o.TruncateFraction = defaultTruncateFraction
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = DefaultRetryPolicy()
	}
	return o
}

// Request describes one pipeline run.
type Request struct {
	SourceText string
	Topic      string
	Device     games.Device

	// Segments and QuestionsPerSegment override the pipeline defaults
	// when positive.
	Segments            int
	QuestionsPerSegment int
}

// NoMatchError reports that no generated question matched any game template
// for the requested device. It is a distinct user-visible outcome, not a
// crash.
type NoMatchError struct {
	Device    games.Device
	Questions int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no games matched any of %d questions for device %q", e.Questions, e.Device)
}

// questionCarrier moves a question through the pipeline together with the
// transient original config and code of its matched game. The transients
// never leave this package.
type questionCarrier struct {
	q              quiz.Question
	originalConfig string
	originalCode   string
}

// Pipeline orchestrates one quiz generation run. Construct with New; safe
// for concurrent use by multiple runs.
type Pipeline struct {
	llm    services.GenerationService
	store  services.GameStore
	filter *textfilter.Sanitizer
	logger *slog.Logger
	opts   Options

	rng *rand.Rand
	mu  sync.Mutex // guards rng, which is not safe for concurrent use
}

// New creates a Pipeline with explicitly injected collaborators.
func New(llm services.GenerationService, store services.GameStore, logger *slog.Logger, opts Options) *Pipeline {
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pipeline{
		llm:    llm,
		store:  store,
		filter: textfilter.NewSanitizer(),
		logger: logger,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// intn draws from the pipeline's random source under the lock. Used by the
// partitioner's segment sampling and the matcher's tie-break.
func (p *Pipeline) intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

func (p *Pipeline) perm(n int) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Perm(n)
}

// Run executes the full pipeline:
// Partition → {GenerateQuestions ∥ SummarizeTheme} → Match → MutateConfigs → Assemble.
func (p *Pipeline) Run(ctx context.Context, req Request) (*quiz.QuizResult, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, &quiz.ValidationError{Field: "source_text", Message: "no source text available"}
	}
	device, err := games.ParseDevice(string(req.Device))
	if err != nil {
		return nil, &quiz.ValidationError{Field: "device", Message: err.Error()}
	}

	n := req.Segments
	if n <= 0 {
		n = p.opts.Segments
	}
	subN := req.QuestionsPerSegment
	if subN <= 0 {
		subN = p.opts.QuestionsPerSegment
	}
	if subN > p.opts.MaxQuestions {
		subN = p.opts.MaxQuestions
	}

	start := time.Now()
	segments := p.partition(req.SourceText, n, subN)
	p.logger.Debug("Source text partitioned",
		"requested_segments", n,
		"effective_segments", len(segments),
		"questions_per_segment", subN)

	// Question generation and theme summarization are independent; run
	// them concurrently and join before matching.
	var (
		carriers []questionCarrier
		theme    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		carriers = p.generateQuestions(gctx, segments, subN)
		return nil
	})
	g.Go(func() error {
		theme = p.summarizeTheme(gctx, req.SourceText)
		return nil
	})
	_ = g.Wait() // workers never return errors
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.matchGames(ctx, carriers, device)
	diagnostics := p.mutateConfigs(ctx, carriers, theme)

	matched := make([]quiz.Question, 0, len(carriers))
	for i := range carriers {
		if carriers[i].q.GameID != nil {
			matched = append(matched, carriers[i].q)
		}
	}
	if len(matched) == 0 {
		return nil, &NoMatchError{Device: device, Questions: len(carriers)}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].QuestionNumber < matched[j].QuestionNumber
	})

	p.logger.Info("Quiz pipeline completed",
		"questions", len(matched),
		"generated", len(carriers),
		"device", device,
		"duration", time.Since(start))

	return &quiz.QuizResult{
		ID:          uuid.New(),
		Topic:       req.Topic,
		Theme:       theme,
		Questions:   matched,
		Diagnostics: diagnostics,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
