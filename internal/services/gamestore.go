package services

import (
	"context"
	"fmt"

	"github.com/quizfighter/quiz-engine/pkg/games"
)

// GameStore defines the interface for the game template store. Records are
// read by the matcher and written only by the seed tool.
type GameStore interface {
	ListGames(ctx context.Context) ([]games.GameRecord, error)
	GetGame(ctx context.Context, id string) (*games.GameRecord, error)
	PutGame(ctx context.Context, rec *games.GameRecord) error
	Ping(ctx context.Context) error
	Close() error
}

// StoreError wraps store connectivity or data failures. The matcher degrades
// it to "no match" for the affected question.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("game store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
