package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

func testGameRecords() []games.GameRecord {
	return []games.GameRecord{
		{
			ID:       "web-mc-1",
			Metadata: games.Metadata{Device: "web", QuestionType: "multiple_choice"},
			Config:   "const config = { id: 1 };",
			Code:     "const config = { id: 1 };\nrun();",
		},
		{
			ID:       "web-mc-2",
			Metadata: games.Metadata{Device: "web", QuestionType: "multiple_choice"},
			Config:   "const config = { id: 2 };",
			Code:     "const config = { id: 2 };\nrun();",
		},
		{
			ID:       "web-tf-1",
			Metadata: games.Metadata{Device: "web", QuestionType: "true_false"},
			Config:   "const config = { id: 3 };",
			Code:     "const config = { id: 3 };\nrun();",
		},
		{
			ID:       "mobile-mc-1",
			Metadata: games.Metadata{Device: "mobile", QuestionType: "multiple_choice"},
			Config:   "const config = { id: 4 };",
			Code:     "const config = { id: 4 };\nrun();",
		},
	}
}

func TestMatchGames_FiltersByDeviceAndType(t *testing.T) {
	store := services.NewMockGameStore(testGameRecords()...)
	p := testPipeline(t, nil, store, Options{})

	carriers := []questionCarrier{
		{q: quiz.Question{QuestionNumber: 1, Type: quiz.TypeMultipleChoice}},
		{q: quiz.Question{QuestionNumber: 2, Type: quiz.TypeTrueFalse}},
	}

	p.matchGames(context.Background(), carriers, games.DeviceWeb)

	require.NotNil(t, carriers[0].q.GameID)
	assert.Contains(t, []string{"web-mc-1", "web-mc-2"}, *carriers[0].q.GameID,
		"multiple choice question gets a web multiple choice game")
	assert.NotEmpty(t, carriers[0].originalConfig)
	assert.NotEmpty(t, carriers[0].originalCode)

	require.NotNil(t, carriers[1].q.GameID)
	assert.Equal(t, "web-tf-1", *carriers[1].q.GameID)
}

func TestMatchGames_NoCompatibleGame(t *testing.T) {
	store := services.NewMockGameStore(testGameRecords()...)
	p := testPipeline(t, nil, store, Options{})

	// No mobile true_false game exists.
	carriers := []questionCarrier{
		{q: quiz.Question{QuestionNumber: 1, Type: quiz.TypeTrueFalse}},
	}
	p.matchGames(context.Background(), carriers, games.DeviceMobile)

	assert.Nil(t, carriers[0].q.GameID)
	assert.Empty(t, carriers[0].originalConfig)
	assert.Empty(t, carriers[0].originalCode)
}

func TestMatchGames_StoreErrorDegradesToNoMatch(t *testing.T) {
	store := services.NewMockGameStore()
	store.SetListGamesError(&services.StoreError{Op: "list", Err: errors.New("connection refused")})
	p := testPipeline(t, nil, store, Options{})

	carriers := []questionCarrier{
		{q: quiz.Question{QuestionNumber: 1, Type: quiz.TypeMultipleChoice}},
		{q: quiz.Question{QuestionNumber: 2, Type: quiz.TypeTrueFalse}},
	}

	// Must not panic or propagate the error.
	p.matchGames(context.Background(), carriers, games.DeviceWeb)

	for _, c := range carriers {
		assert.Nil(t, c.q.GameID)
	}
}

func TestMatchGames_TieBreakVariesButStaysInCandidateSet(t *testing.T) {
	store := services.NewMockGameStore(testGameRecords()...)
	p := testPipeline(t, nil, store, Options{Seed: 7})

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		carriers := []questionCarrier{
			{q: quiz.Question{QuestionNumber: 1, Type: quiz.TypeMultipleChoice}},
		}
		p.matchGames(context.Background(), carriers, games.DeviceWeb)
		require.NotNil(t, carriers[0].q.GameID)
		seen[*carriers[0].q.GameID] = true
	}

	for id := range seen {
		assert.Contains(t, []string{"web-mc-1", "web-mc-2"}, id)
	}
	assert.Len(t, seen, 2, "both equally compatible candidates get picked over 20 runs")
}
