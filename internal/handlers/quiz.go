package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/quizfighter/quiz-engine/internal/pipeline"
	"github.com/quizfighter/quiz-engine/internal/textsource"
	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

const (
	quizTimeout   = 5 * time.Minute
	maxUploadSize = 32 << 20 // 32 MiB
)

// TextAcquirer produces raw source text for a quiz request.
type TextAcquirer interface {
	Acquire(ctx context.Context, req textsource.Request) (string, error)
}

// QuizRunner runs the generation pipeline over acquired text.
type QuizRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*quiz.QuizResult, error)
}

// QuizRequest is the JSON body for POST /v1/quiz.
type QuizRequest struct {
	Topic  string `json:"topic"`
	Device string `json:"device"`

	// N and SubN override segment count and questions per segment.
	N    int `json:"n,omitempty"`
	SubN int `json:"sub_n,omitempty"`
}

// QuizHandler serves quiz generation from a topic or an uploaded PDF.
type QuizHandler struct {
	source TextAcquirer
	runner QuizRunner
	logger *slog.Logger
}

func NewQuizHandler(source TextAcquirer, runner QuizRunner, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		source: source,
		runner: runner,
		logger: logger,
	}
}

func (h *QuizHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'topic' and 'device' fields.")
		return
	}

	if request.Topic == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Topic cannot be empty.")
		return
	}
	device, err := games.ParseDevice(request.Device)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Quiz requested",
		"topic", request.Topic,
		"device", device,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), quizTimeout)
	defer cancel()

	h.generate(ctx, w, textsource.Request{Topic: request.Topic}, pipeline.Request{
		Topic:               request.Topic,
		Device:              device,
		Segments:            request.N,
		QuestionsPerSegment: request.SubN,
	})
}

// ServePDF handles POST /v1/quiz/pdf: a multipart upload with a "file" part
// and a "device" field. The upload is spooled to a temp file for extraction.
func (h *QuizHandler) ServePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("Invalid multipart form", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid multipart form. Expected 'file' and 'device' fields.")
		return
	}

	device, err := games.ParseDevice(r.FormValue("device"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "A PDF file upload is required.")
		return
	}
	defer func() { _ = file.Close() }()

	pdfPath, err := spoolUpload(file)
	if err != nil {
		h.logger.Error("Failed to spool PDF upload", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process upload.")
		return
	}
	defer func() { _ = os.Remove(pdfPath) }()

	h.logger.Info("PDF quiz requested",
		"filename", header.Filename,
		"size", header.Size,
		"device", device,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), quizTimeout)
	defer cancel()

	h.generate(ctx, w, textsource.Request{PDFPath: pdfPath}, pipeline.Request{
		Device: device,
	})
}

func (h *QuizHandler) generate(ctx context.Context, w http.ResponseWriter, src textsource.Request, preq pipeline.Request) {
	text, err := h.source.Acquire(ctx, src)
	if err != nil {
		writePipelineError(w, h.logger, err)
		return
	}
	if text == "" {
		h.logger.Warn("Text acquisition yielded nothing", "topic", src.Topic, "pdf", src.PDFPath)
		writeError(w, h.logger, http.StatusBadGateway, "Could not acquire source text for the request.")
		return
	}
	preq.SourceText = text

	result, err := h.runner.Run(ctx, preq)
	if err != nil {
		writePipelineError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

func spoolUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "quiz-upload-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return filepath.Clean(tmp.Name()), nil
}
