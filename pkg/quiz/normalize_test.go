package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MultipleChoice(t *testing.T) {
	tests := []struct {
		name    string
		in      Question
		wantErr bool
		check   func(t *testing.T, q Question)
	}{
		{
			name: "well formed question passes through",
			in: Question{
				Question:       "What color is the sky?",
				Type:           TypeMultipleChoice,
				Choices:        []string{"Blue", "Green", "Red", "Yellow"},
				CorrectAnswer:  "Blue",
				Difficulty:     DifficultyEasy,
				SuccessMessage: "Nice!",
			},
			check: func(t *testing.T, q Question) {
				assert.Equal(t, "Blue", q.CorrectAnswer)
				assert.Equal(t, DifficultyEasy, q.Difficulty)
				assert.Equal(t, "Nice!", q.SuccessMessage)
			},
		},
		{
			name: "missing choices degrade to placeholder",
			in: Question{
				Question:      "Pick one",
				Type:          TypeMultipleChoice,
				CorrectAnswer: "something",
			},
			check: func(t *testing.T, q Question) {
				assert.Equal(t, []string{PlaceholderChoice}, q.Choices)
				assert.Equal(t, PlaceholderChoice, q.CorrectAnswer)
			},
		},
		{
			name: "case insensitive answer snaps to choice",
			in: Question{
				Question:      "Largest planet?",
				Type:          TypeMultipleChoice,
				Choices:       []string{"Jupiter", "Saturn", "Mars", "Venus"},
				CorrectAnswer: "jupiter",
			},
			check: func(t *testing.T, q Question) {
				assert.Equal(t, "Jupiter", q.CorrectAnswer)
			},
		},
		{
			name: "answer absent from choices replaces final choice",
			in: Question{
				Question:      "Capital of France?",
				Type:          TypeMultipleChoice,
				Choices:       []string{"Berlin", "Madrid", "Rome", "Lisbon"},
				CorrectAnswer: "Paris",
			},
			check: func(t *testing.T, q Question) {
				assert.Contains(t, q.Choices, "Paris")
				assert.Equal(t, "Paris", q.CorrectAnswer)
				assert.Len(t, q.Choices, 4)
			},
		},
		{
			name: "empty type defaults to multiple choice",
			in: Question{
				Question:      "2+2?",
				Choices:       []string{"3", "4", "5", "6"},
				CorrectAnswer: "4",
			},
			check: func(t *testing.T, q Question) {
				assert.Equal(t, TypeMultipleChoice, q.Type)
			},
		},
		{
			name:    "empty question text is rejected",
			in:      Question{Question: "  ", Type: TypeMultipleChoice},
			wantErr: true,
		},
		{
			name: "no correct answer with choices is rejected",
			in: Question{
				Question: "Pick",
				Type:     TypeMultipleChoice,
				Choices:  []string{"a", "b"},
			},
			wantErr: true,
		},
		{
			name: "unknown type is rejected",
			in: Question{
				Question:      "Pick",
				Type:          "fill_in_the_blank",
				CorrectAnswer: "x",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			err := Normalize(&q)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, q)
			}
		})
	}
}

func TestNormalize_TrueFalse(t *testing.T) {
	q := Question{
		Question:      "The sun is a star.",
		Type:          TypeTrueFalse,
		Choices:       []string{"true", "false"},
		CorrectAnswer: "True",
	}
	require.NoError(t, Normalize(&q))
	assert.Equal(t, "true", q.CorrectAnswer)
	assert.Nil(t, q.Choices, "true/false questions carry no choices")

	bad := Question{
		Question:      "The moon is cheese.",
		Type:          TypeTrueFalse,
		CorrectAnswer: "maybe",
	}
	assert.Error(t, Normalize(&bad))
}

func TestNormalize_Defaults(t *testing.T) {
	q := Question{
		Question:      "Is water wet?",
		Type:          TypeTrueFalse,
		CorrectAnswer: "true",
		Difficulty:    "impossible",
	}
	require.NoError(t, Normalize(&q))
	assert.Equal(t, DifficultyMedium, q.Difficulty, "unknown difficulty falls back to medium")
	assert.Equal(t, DefaultSuccessMessage, q.SuccessMessage)
}
