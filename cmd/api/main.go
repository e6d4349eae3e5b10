package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quizfighter/quiz-engine/internal/config"
	"github.com/quizfighter/quiz-engine/internal/handlers"
	"github.com/quizfighter/quiz-engine/internal/logger"
	"github.com/quizfighter/quiz-engine/internal/middleware"
	"github.com/quizfighter/quiz-engine/internal/pipeline"
	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/internal/textsource"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Quiz Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider)

	var llmService services.GenerationService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, log)
		log.Info("Using Anthropic generation provider", "model", cfg.AnthropicModel)
	case "openai":
		llmService = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
		log.Info("Using OpenAI generation provider", "model", cfg.OpenAIModel)
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"anthropic", "openai"})
		os.Exit(1)
	}

	redis := services.NewRedisService(cfg.RedisURL, log)
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()

	if err := redis.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established successfully")

	runner := pipeline.New(llmService, redis, log, pipeline.Options{
		Segments:            cfg.Segments,
		QuestionsPerSegment: cfg.QuestionsPerSegment,
		MaxQuestions:        cfg.QuestionCeiling,
		MaxConcurrent:       cfg.MaxConcurrent,
	})
	source := textsource.New(llmService, redis, log, cfg.WikiUserAgent)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(redis, log)
	mux.Handle("/", healthHandler)
	mux.Handle("/health", healthHandler)

	quizHandler := handlers.NewQuizHandler(source, runner, log)
	mux.Handle("/v1/quiz", quizHandler)
	mux.HandleFunc("/v1/quiz/pdf", quizHandler.ServePDF)

	gamesHandler := handlers.NewGamesHandler(redis, log)
	mux.Handle("/v1/games", gamesHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout intentionally unset; quiz generation runs long and
		// handlers enforce their own deadlines.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := redis.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
