package quiz

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionType identifies the interaction style of a question.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
)

// Difficulty rates how hard a question is expected to be.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single generated quiz question. After matching, GameID
// points at the game template the question plays in, and Config/Code carry
// the themed configuration and game source. Config and Code are populated
// iff GameID is non-nil.
type Question struct {
	QuestionNumber int          `json:"question_number"`
	Question       string       `json:"question"`
	Type           QuestionType `json:"question_type"`
	Choices        []string     `json:"choices,omitempty"`
	CorrectAnswer  string       `json:"correct_answer"`
	Explanation    string       `json:"explanation,omitempty"`
	Difficulty     Difficulty   `json:"difficulty"`
	SuccessMessage string       `json:"success_message,omitempty"`
	GameID         *string      `json:"game_id,omitempty"`
	Config         string       `json:"config,omitempty"`
	Code           string       `json:"code,omitempty"`
}

// QuizResult is the assembled output of one pipeline run. The ID exists for
// log correlation only; nothing is persisted across runs.
type QuizResult struct {
	ID          uuid.UUID  `json:"id"`
	Topic       string     `json:"topic,omitempty"`
	Theme       string     `json:"theme"`
	Questions   []Question `json:"questions"`
	Diagnostics []string   `json:"diagnostics,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ValidationError reports caller-side input problems (bad device, missing
// text source). It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
