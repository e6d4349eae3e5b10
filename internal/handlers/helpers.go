package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quizfighter/quiz-engine/internal/pipeline"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

// ErrorResponse is the JSON body for all error results.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: message})
}

// writePipelineError maps pipeline failures onto HTTP statuses: invalid
// input is the caller's fault, no matching game is a 404, and anything
// else is internal.
func writePipelineError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *quiz.ValidationError
	if errors.As(err, &verr) {
		writeError(w, logger, http.StatusBadRequest, verr.Error())
		return
	}

	var nmerr *pipeline.NoMatchError
	if errors.As(err, &nmerr) {
		writeError(w, logger, http.StatusNotFound, nmerr.Error())
		return
	}

	logger.Error("Quiz generation failed", "error", err)
	writeError(w, logger, http.StatusInternalServerError, "Failed to generate quiz. Please try again.")
}
