package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// QuizRequest matches the API request structure
type QuizRequest struct {
	Topic  string `json:"topic"`
	Device string `json:"device"`
}

func requestQuiz(client *http.Client, baseURL string, topic string, device games.Device) (*quiz.QuizResult, error) {
	jsonData, err := json.Marshal(QuizRequest{Topic: topic, Device: string(device)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/quiz",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to generate quiz: %s", errorResp.Error)
	}

	var result quiz.QuizResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}
	return &result, nil
}

// GameSummary matches the API list representation of a game template.
type GameSummary struct {
	ID       string         `json:"id"`
	Metadata games.Metadata `json:"metadata"`
}

func listGames(client *http.Client, baseURL string) ([]GameSummary, error) {
	resp, err := client.Get(baseURL + "/v1/games")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var summaries []GameSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}
