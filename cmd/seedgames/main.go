// Command seedgames loads game template JSON files into the Redis game
// store. It is idempotent: existing records with the same id are
// overwritten.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/quizfighter/quiz-engine/internal/config"
	"github.com/quizfighter/quiz-engine/internal/logger"
	"github.com/quizfighter/quiz-engine/internal/services"
	"github.com/quizfighter/quiz-engine/pkg/games"
)

func main() {
	dir := flag.String("dir", "", "directory of game template JSON files (defaults to <DATA_DIR>/games)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logg := logger.Setup(cfg)

	gamesDir := *dir
	if gamesDir == "" {
		gamesDir = filepath.Join(cfg.DataDir, "games")
	}

	redis := services.NewRedisService(cfg.RedisURL, logg)
	defer func() { _ = redis.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := redis.Ping(ctx); err != nil {
		logg.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	n, err := seed(ctx, redis, gamesDir)
	if err != nil {
		logg.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	logg.Info("Game templates seeded", "count", n, "dir", gamesDir)
}

func seed(ctx context.Context, store services.GameStore, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no game template files found in %s", dir)
	}

	count := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var rec games.GameRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return count, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := rec.Validate(); err != nil {
			return count, fmt.Errorf("invalid template %s: %w", path, err)
		}

		if err := store.PutGame(ctx, &rec); err != nil {
			return count, fmt.Errorf("failed to store %s: %w", rec.ID, err)
		}
		count++
	}
	return count, nil
}
