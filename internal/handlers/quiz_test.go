package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizfighter/quiz-engine/internal/pipeline"
	"github.com/quizfighter/quiz-engine/internal/textsource"
	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

type stubAcquirer struct {
	text string
	err  error
	last textsource.Request
}

func (s *stubAcquirer) Acquire(ctx context.Context, req textsource.Request) (string, error) {
	s.last = req
	return s.text, s.err
}

type stubRunner struct {
	result *quiz.QuizResult
	err    error
	last   pipeline.Request
}

func (s *stubRunner) Run(ctx context.Context, req pipeline.Request) (*quiz.QuizResult, error) {
	s.last = req
	return s.result, s.err
}

func sampleResult() *quiz.QuizResult {
	gameID := "web-mc-1"
	return &quiz.QuizResult{
		ID:    uuid.New(),
		Theme: "ocean exploration",
		Questions: []quiz.Question{
			{
				QuestionNumber: 1,
				Question:       "How deep is the Mariana Trench?",
				Type:           quiz.TypeMultipleChoice,
				Choices:        []string{"11 km", "2 km", "5 km", "8 km"},
				CorrectAnswer:  "11 km",
				GameID:         &gameID,
			},
		},
		CreatedAt: time.Now(),
	}
}

func postQuiz(t *testing.T, handler *QuizHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/quiz", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestQuizHandler_Success(t *testing.T) {
	acquirer := &stubAcquirer{text: "The deep sea is vast."}
	runner := &stubRunner{result: sampleResult()}
	handler := NewQuizHandler(acquirer, runner, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "web", "n": 5, "sub_n": 2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result quiz.QuizResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "ocean exploration", result.Theme)
	require.Len(t, result.Questions, 1)

	assert.Equal(t, "deep sea", acquirer.last.Topic)
	assert.Equal(t, "The deep sea is vast.", runner.last.SourceText)
	assert.Equal(t, games.DeviceWeb, runner.last.Device)
	assert.Equal(t, 5, runner.last.Segments)
	assert.Equal(t, 2, runner.last.QuestionsPerSegment)
}

func TestQuizHandler_InvalidBody(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	w := postQuiz(t, handler, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_EmptyTopic(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	w := postQuiz(t, handler, `{"topic": "", "device": "web"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_UnknownDevice(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "console"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_EmptyAcquisitionIsBadGateway(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{text: ""}, &stubRunner{}, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "web"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestQuizHandler_NoMatchIs404(t *testing.T) {
	runner := &stubRunner{err: &pipeline.NoMatchError{Device: games.DeviceMobile, Questions: 4}}
	handler := NewQuizHandler(&stubAcquirer{text: "text"}, runner, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "mobile"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "mobile")
}

func TestQuizHandler_PipelineValidationIs400(t *testing.T) {
	runner := &stubRunner{err: &quiz.ValidationError{Field: "source_text", Message: "no source text available"}}
	handler := NewQuizHandler(&stubAcquirer{text: "text"}, runner, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "web"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_InternalError(t *testing.T) {
	runner := &stubRunner{err: context.DeadlineExceeded}
	handler := NewQuizHandler(&stubAcquirer{text: "text"}, runner, testLogger())

	w := postQuiz(t, handler, `{"topic": "deep sea", "device": "web"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestQuizHandler_MethodNotAllowed(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/quiz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func pdfRequest(t *testing.T, device string, withFile bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("device", device))
	if withFile {
		part, err := mw.CreateFormFile("file", "notes.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/quiz/pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestQuizHandler_PDFUpload(t *testing.T) {
	acquirer := &stubAcquirer{text: "extracted pdf text"}
	runner := &stubRunner{result: sampleResult()}
	handler := NewQuizHandler(acquirer, runner, testLogger())

	w := httptest.NewRecorder()
	handler.ServePDF(w, pdfRequest(t, "web", true))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, acquirer.last.PDFPath)
	assert.Equal(t, "extracted pdf text", runner.last.SourceText)
}

func TestQuizHandler_PDFMissingFile(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	w := httptest.NewRecorder()
	handler.ServePDF(w, pdfRequest(t, "web", false))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuizHandler_PDFUnknownDevice(t *testing.T) {
	handler := NewQuizHandler(&stubAcquirer{}, &stubRunner{}, testLogger())

	w := httptest.NewRecorder()
	handler.ServePDF(w, pdfRequest(t, "desktop", true))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
