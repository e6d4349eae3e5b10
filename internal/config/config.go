package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string

	RedisURL string
	DataDir  string

	WikiUserAgent string

	// Pipeline tuning
	MaxConcurrent       int
	QuestionCeiling     int
	Segments            int
	QuestionsPerSegment int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		WikiUserAgent: getEnv("WIKI_USER_AGENT", "quiz-engine/1.0 (https://github.com/quizfighter/quiz-engine)"),
	}

	var err error
	if cfg.MaxConcurrent, err = getEnvInt("PIPELINE_MAX_CONCURRENT", 8); err != nil {
		return nil, err
	}
	if cfg.QuestionCeiling, err = getEnvInt("QUESTION_CEILING", 10); err != nil {
		return nil, err
	}
	if cfg.Segments, err = getEnvInt("SEGMENTS", 10); err != nil {
		return nil, err
	}
	if cfg.QuestionsPerSegment, err = getEnvInt("QUESTIONS_PER_SEGMENT", 3); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LLMProvider) {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER is anthropic")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER is openai")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q (supported: anthropic, openai)", c.LLMProvider)
	}

	if c.MaxConcurrent < 1 {
		return fmt.Errorf("PIPELINE_MAX_CONCURRENT must be at least 1")
	}
	if c.QuestionCeiling < 1 {
		return fmt.Errorf("QUESTION_CEILING must be at least 1")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
