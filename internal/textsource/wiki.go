package textsource

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/prompts"
)

const (
	queryCacheTTL  = 24 * time.Hour
	queryMaxTokens = 256
)

// querySchema is the structured-output contract for search query
// generation.
var querySchema = &services.Schema{
	Name:        "submit_query",
	Description: "Submit a Wikipedia search query for the topic",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "A specific Wikipedia search query",
			},
		},
		"required": []string{"query"},
	},
}

// fromWikipedia resolves a topic to article text: generate a search query
// (cached), search for the best page, fetch its plain-text extract. Every
// failure degrades to a simpler behavior; the worst case is an empty
// string.
func (s *Source) fromWikipedia(ctx context.Context, topic string) string {
	query := s.searchQuery(ctx, topic)

	title, err := s.searchPage(ctx, query)
	if err != nil {
		s.logger.Warn("Wikipedia search failed", "query", query, "error", err)
		return ""
	}
	if title == "" {
		s.logger.Info("No Wikipedia page found", "query", query)
		return ""
	}

	text, err := s.pageText(ctx, title)
	if err != nil {
		s.logger.Warn("Wikipedia extract failed", "title", title, "error", err)
		return ""
	}
	return text
}

// searchQuery asks the generation backend for a concept-focused search
// query, consulting the cache first. Any failure falls back to the raw
// topic.
func (s *Source) searchQuery(ctx context.Context, topic string) string {
	key := queryCacheKey(topic)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		return cached
	}

	res, err := s.llm.Generate(ctx, services.GenerationRequest{
		System:    prompts.SearchQuerySystem,
		Prompt:    prompts.SearchQuery(topic),
		Schema:    querySchema,
		MaxTokens: queryMaxTokens,
	})
	if err != nil {
		s.logger.Warn("Search query generation failed, using topic directly", "topic", topic, "error", err)
		return topic
	}

	var payload struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(res.Structured, &payload); err != nil || strings.TrimSpace(payload.Query) == "" {
		return topic
	}
	query := strings.TrimSpace(payload.Query)

	if err := s.cache.Set(ctx, key, query, queryCacheTTL); err != nil {
		s.logger.Debug("Failed to cache search query", "key", key, "error", err)
	}
	return query
}

func queryCacheKey(topic string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(topic))))
	return fmt.Sprintf("query_cache_%d", h.Sum64())
}

// searchPage returns the title of the top search hit, or "" when the search
// yields nothing.
func (s *Source) searchPage(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s/w/rest.php/v1/search/page?q=%s&limit=1", s.baseURL, url.QueryEscape(query))

	body, err := s.get(ctx, u)
	if err != nil {
		return "", err
	}

	var result struct {
		Pages []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse search response: %w", err)
	}
	if len(result.Pages) == 0 {
		return "", nil
	}
	return result.Pages[0].Title, nil
}

// pageText fetches the plain-text extract of an article.
func (s *Source) pageText(ctx context.Context, title string) (string, error) {
	u := fmt.Sprintf("%s/w/api.php?action=query&prop=extracts&explaintext=1&format=json&titles=%s",
		s.baseURL, url.QueryEscape(title))

	body, err := s.get(ctx, u)
	if err != nil {
		return "", err
	}

	var result struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse extract response: %w", err)
	}

	for _, page := range result.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", nil
}

func (s *Source) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
