package handlers

import (
	"log/slog"
	"net/http"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/games"
)

// GameSummary is the list representation of a game template. Config and
// code are omitted; they are only delivered attached to quiz questions.
type GameSummary struct {
	ID       string         `json:"id"`
	Metadata games.Metadata `json:"metadata"`
}

type GamesHandler struct {
	store  services.GameStore
	logger *slog.Logger
}

func NewGamesHandler(store services.GameStore, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{
		store:  store,
		logger: logger,
	}
}

func (h *GamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	records, err := h.store.ListGames(r.Context())
	if err != nil {
		h.logger.Error("Failed to list games", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list game templates.")
		return
	}

	summaries := make([]GameSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, GameSummary{ID: rec.ID, Metadata: rec.Metadata})
	}
	writeJSON(w, h.logger, http.StatusOK, summaries)
}
