package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/prompts"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

const (
	questionMaxTokens   = 1000
	questionTemperature = 0.2
)

// questionSchema is the structured-output contract for one segment's
// generation call.
func questionSchema(count int) *services.Schema {
	return &services.Schema{
		Name:        "submit_questions",
		Description: fmt.Sprintf("Submit %d generated quiz questions", count),
		Definition: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"questions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"question_number": map[string]interface{}{
								"type": "integer",
							},
							"question": map[string]interface{}{
								"type":        "string",
								"description": "Short, concise question text",
							},
							"question_type": map[string]interface{}{
								"type": "string",
								"enum": []string{"multiple_choice", "true_false"},
							},
							"choices": map[string]interface{}{
								"type":        "array",
								"items":       map[string]interface{}{"type": "string"},
								"description": "Exactly 4 choices for multiple_choice; omit for true_false",
							},
							"correct_answer": map[string]interface{}{
								"type":        "string",
								"description": "Must exactly match one choice, or \"true\"/\"false\"",
							},
							"explanation": map[string]interface{}{
								"type":        "string",
								"description": "Short explanation for the answer",
							},
							"difficulty": map[string]interface{}{
								"type": "string",
								"enum": []string{"easy", "medium", "hard"},
							},
							"success_message": map[string]interface{}{
								"type":        "string",
								"description": "Playful message shown on a correct answer",
							},
						},
						"required": []string{"question", "question_type", "correct_answer"},
					},
				},
			},
			"required": []string{"questions"},
		},
	}
}

// generateQuestions fans out one generation call per segment with bounded
// concurrency. A failed or malformed segment degrades to zero questions and
// never affects its siblings. Output is ordered by segment index with
// globally unique question numbers, regardless of completion order.
func (p *Pipeline) generateQuestions(ctx context.Context, segments []Segment, subN int) []questionCarrier {
	results := make([][]quiz.Question, len(segments))

	g := new(errgroup.Group)
	g.SetLimit(p.opts.MaxConcurrent)
	for _, seg := range segments {
		seg := seg
		g.Go(func() error {
			qs, err := p.questionsForSegment(ctx, seg, subN)
			if err != nil {
				p.logger.Warn("Question generation failed for segment",
					"segment", seg.Index,
					"error", err)
				return nil
			}
			results[seg.Index] = qs
			return nil
		})
	}
	_ = g.Wait()

	carriers := make([]questionCarrier, 0, len(segments)*subN)
	for _, qs := range results {
		for _, q := range qs {
			carriers = append(carriers, questionCarrier{q: q})
		}
	}
	return carriers
}

// questionsForSegment issues the segment's generation call, then sanitizes,
// normalizes, and renumbers the returned records. Numbering restarts at
// segmentIndex*subN + 1 so numbers are unique and gap-free within a
// segment's contribution.
func (p *Pipeline) questionsForSegment(ctx context.Context, seg Segment, subN int) ([]quiz.Question, error) {
	res, err := p.llm.Generate(ctx, services.GenerationRequest{
		System:      prompts.QuestionSystem,
		Prompt:      prompts.SegmentQuestions(seg.Text, subN),
		Schema:      questionSchema(subN),
		MaxTokens:   questionMaxTokens,
		Temperature: questionTemperature,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal(res.Structured, &payload); err != nil {
		return nil, fmt.Errorf("malformed question payload: %w", err)
	}

	kept := make([]quiz.Question, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		q.Question = p.filter.Clean(q.Question)
		q.Explanation = p.filter.Clean(q.Explanation)
		q.CorrectAnswer = p.filter.CleanChoice(q.CorrectAnswer)
		for i, c := range q.Choices {
			q.Choices[i] = p.filter.CleanChoice(c)
		}

		if err := quiz.Normalize(&q); err != nil {
			p.logger.Warn("Dropping unusable question",
				"segment", seg.Index,
				"error", err)
			continue
		}
		kept = append(kept, q)
		if len(kept) == subN {
			break
		}
	}

	start := seg.Index*subN + 1
	for i := range kept {
		kept[i].QuestionNumber = start + i
	}
	return kept, nil
}
