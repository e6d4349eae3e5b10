package quiz

import (
	"fmt"
	"strings"
)

const (
	// PlaceholderChoice stands in when the backend omits choices for a
	// multiple choice question.
	PlaceholderChoice = "(choices unavailable)"

	// DefaultSuccessMessage backfills a missing success_message.
	DefaultSuccessMessage = "Correct! Great job."

	maxChoices = 4
)

// Normalize applies the uniform post-validation pass to a generated record.
// Every question that leaves the generator has been through this: optional
// fields are backfilled with safe defaults, enums are canonicalized, and the
// correct answer is guaranteed to be a member of the choices for multiple
// choice questions. Records that cannot be repaired are rejected with an
// error so the caller can drop them without failing the batch.
func Normalize(q *Question) error {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}

	switch QuestionType(strings.ToLower(strings.TrimSpace(string(q.Type)))) {
	case TypeMultipleChoice, "":
		q.Type = TypeMultipleChoice
		if err := normalizeMultipleChoice(q); err != nil {
			return err
		}
	case TypeTrueFalse:
		q.Type = TypeTrueFalse
		if err := normalizeTrueFalse(q); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	switch Difficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty)))) {
	case DifficultyEasy:
		q.Difficulty = DifficultyEasy
	case DifficultyHard:
		q.Difficulty = DifficultyHard
	default:
		q.Difficulty = DifficultyMedium
	}

	if strings.TrimSpace(q.SuccessMessage) == "" {
		q.SuccessMessage = DefaultSuccessMessage
	}
	q.Explanation = strings.TrimSpace(q.Explanation)

	return nil
}

func normalizeMultipleChoice(q *Question) error {
	choices := make([]string, 0, len(q.Choices))
	for _, c := range q.Choices {
		c = strings.TrimSpace(c)
		if c != "" {
			choices = append(choices, c)
		}
	}
	if len(choices) > maxChoices {
		choices = choices[:maxChoices]
	}

	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)

	if len(choices) == 0 {
		q.Choices = []string{PlaceholderChoice}
		q.CorrectAnswer = PlaceholderChoice
		return nil
	}
	q.Choices = choices

	if q.CorrectAnswer == "" {
		return fmt.Errorf("multiple choice question has no correct answer")
	}

	// Snap the answer onto a choice. Exact match first, then
	// case-insensitive; as a last resort the final choice is overwritten
	// so the stated answer stays correct.
	for _, c := range q.Choices {
		if c == q.CorrectAnswer {
			return nil
		}
	}
	for _, c := range q.Choices {
		if strings.EqualFold(c, q.CorrectAnswer) {
			q.CorrectAnswer = c
			return nil
		}
	}
	q.Choices[len(q.Choices)-1] = q.CorrectAnswer
	return nil
}

func normalizeTrueFalse(q *Question) error {
	q.Choices = nil
	switch strings.ToLower(strings.TrimSpace(q.CorrectAnswer)) {
	case "true", "t", "yes":
		q.CorrectAnswer = "true"
	case "false", "f", "no":
		q.CorrectAnswer = "false"
	default:
		return fmt.Errorf("true/false question has unusable answer %q", q.CorrectAnswer)
	}
	return nil
}
