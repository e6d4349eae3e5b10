package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

// questionPayload builds a structured submit_questions result with count
// true/false questions whose text embeds the given tag.
func questionPayload(t *testing.T, tag string, count int) *services.GenerationResult {
	t.Helper()

	qs := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		qs = append(qs, map[string]interface{}{
			"question_number": i + 1,
			"question":        fmt.Sprintf("Question %s-%d is true?", tag, i),
			"question_type":   "true_false",
			"correct_answer":  "true",
			"explanation":     "because",
			"difficulty":      "easy",
		})
	}
	data, err := json.Marshal(map[string]interface{}{"questions": qs})
	require.NoError(t, err)
	return &services.GenerationResult{Structured: data}
}

func TestGenerateQuestions_NumberingIndependentOfCompletionOrder(t *testing.T) {
	subN := 2
	segments := []Segment{
		{Index: 0, Text: "seg0"},
		{Index: 1, Text: "seg1"},
		{Index: 2, Text: "seg2"},
	}

	llm := services.NewMockGenerationService()
	llm.GenerateFunc = func(ctx context.Context, req services.GenerationRequest) (*services.GenerationResult, error) {
		// Earlier segments finish last.
		switch {
		case strings.Contains(req.Prompt, "seg0"):
			time.Sleep(30 * time.Millisecond)
			return questionPayload(t, "seg0", subN), nil
		case strings.Contains(req.Prompt, "seg1"):
			time.Sleep(15 * time.Millisecond)
			return questionPayload(t, "seg1", subN), nil
		default:
			return questionPayload(t, "seg2", subN), nil
		}
	}

	p := testPipeline(t, llm, nil, Options{})
	carriers := p.generateQuestions(context.Background(), segments, subN)

	require.Len(t, carriers, 6)
	for i, c := range carriers {
		assert.Equal(t, i+1, c.q.QuestionNumber, "numbers are sequential in segment order")
	}
	assert.Contains(t, carriers[0].q.Question, "seg0")
	assert.Contains(t, carriers[2].q.Question, "seg1")
	assert.Contains(t, carriers[4].q.Question, "seg2")
}

func TestGenerateQuestions_FailedSegmentIsIsolated(t *testing.T) {
	segments := []Segment{
		{Index: 0, Text: "seg0"},
		{Index: 1, Text: "seg1"},
		{Index: 2, Text: "seg2"},
	}

	llm := services.NewMockGenerationService()
	llm.GenerateFunc = func(ctx context.Context, req services.GenerationRequest) (*services.GenerationResult, error) {
		if strings.Contains(req.Prompt, "seg1") {
			return nil, &services.BackendError{Provider: "test", Message: "boom"}
		}
		tag := "seg0"
		if strings.Contains(req.Prompt, "seg2") {
			tag = "seg2"
		}
		return questionPayload(t, tag, 2), nil
	}

	p := testPipeline(t, llm, nil, Options{})
	carriers := p.generateQuestions(context.Background(), segments, 2)

	require.Len(t, carriers, 4, "failed segment degrades to zero questions")

	var numbers []int
	for _, c := range carriers {
		numbers = append(numbers, c.q.QuestionNumber)
	}
	// seg0 contributes 1,2; seg1 contributes nothing; seg2 contributes 5,6.
	assert.Equal(t, []int{1, 2, 5, 6}, numbers)
}

func TestGenerateQuestions_MalformedPayloadDegrades(t *testing.T) {
	llm := services.NewMockGenerationService()
	llm.GenerateFunc = func(ctx context.Context, req services.GenerationRequest) (*services.GenerationResult, error) {
		return &services.GenerationResult{Structured: json.RawMessage(`"not an object"`)}, nil
	}

	p := testPipeline(t, llm, nil, Options{})
	carriers := p.generateQuestions(context.Background(), []Segment{{Index: 0, Text: "x"}}, 3)
	assert.Empty(t, carriers)
}

func TestQuestionsForSegment_NormalizesAndCaps(t *testing.T) {
	llm := services.NewMockGenerationService()
	llm.GenerateFunc = func(ctx context.Context, req services.GenerationRequest) (*services.GenerationResult, error) {
		payload := map[string]interface{}{
			"questions": []map[string]interface{}{
				{
					// Missing difficulty and success_message; markdown in text.
					"question":       "Is **bold** text true?",
					"question_type":  "true_false",
					"correct_answer": "TRUE",
				},
				{
					// Unusable: no question text.
					"question":       "",
					"question_type":  "true_false",
					"correct_answer": "false",
				},
				{
					"question":       "Pick a planet",
					"question_type":  "multiple_choice",
					"choices":        []string{"A) Mars", "B) Venus", "C) Pluto", "D) Vulcan"},
					"correct_answer": "mars",
				},
				{
					// Over the subN cap once the empty one is dropped.
					"question":       "Extra question?",
					"question_type":  "true_false",
					"correct_answer": "true",
				},
				{
					"question":       "Another extra?",
					"question_type":  "true_false",
					"correct_answer": "false",
				},
			},
		}
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		return &services.GenerationResult{Structured: data}, nil
	}

	p := testPipeline(t, llm, nil, Options{})
	qs, err := p.questionsForSegment(context.Background(), Segment{Index: 1, Text: "x"}, 3)
	require.NoError(t, err)
	require.Len(t, qs, 3, "kept questions are capped at subN")

	first := qs[0]
	assert.Equal(t, "Is bold text true?", first.Question, "markdown is stripped")
	assert.Equal(t, "true", first.CorrectAnswer)
	assert.Equal(t, quiz.DifficultyMedium, first.Difficulty)
	assert.Equal(t, quiz.DefaultSuccessMessage, first.SuccessMessage)
	assert.Equal(t, 4, first.QuestionNumber, "segment 1 starts numbering at subN+1")

	mc := qs[1]
	assert.Equal(t, []string{"Mars", "Venus", "Pluto", "Vulcan"}, mc.Choices, "choice labels are stripped")
	assert.Equal(t, "Mars", mc.CorrectAnswer, "answer snaps onto a choice")
	assert.Contains(t, mc.Choices, mc.CorrectAnswer)
}
