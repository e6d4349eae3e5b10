package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizfighter/quiz-engine/pkg/games"
)

// gameDataKey is the Redis hash holding game templates: field = game id,
// value = JSON-encoded GameRecord.
const gameDataKey = "game_data"

// RedisService backs both the query cache and the game store with a single
// Redis connection.
type RedisService struct {
	client *redis.Client
	logger *slog.Logger
}

var (
	_ Cache     = (*RedisService)(nil)
	_ GameStore = (*RedisService)(nil)
)

// NewRedisService creates a new Redis service instance
func NewRedisService(redisURL string, logger *slog.Logger) *RedisService {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisService{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisService) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisService) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisService) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Cache operations

func (r *RedisService) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	cmd := r.client.Set(ctx, key, value, expiration)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Redis SET failed", "key", key, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Redis SET successful", "key", key)
	return nil
}

func (r *RedisService) Get(ctx context.Context, key string) (string, error) {
	cmd := r.client.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("Redis key not found", "key", key)
			return "", nil // Return empty string for not found, not an error
		}
		r.logger.Error("Redis GET failed", "key", key, "error", err)
		return "", fmt.Errorf("redis get failed: %w", err)
	}

	return cmd.Val(), nil
}

func (r *RedisService) Del(ctx context.Context, keys ...string) error {
	cmd := r.client.Del(ctx, keys...)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Redis DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("redis del failed: %w", err)
	}

	return nil
}

// GameStore operations (Redis hash-backed)

func (r *RedisService) ListGames(ctx context.Context) ([]games.GameRecord, error) {
	cmd := r.client.HGetAll(ctx, gameDataKey)
	if err := cmd.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	fields := cmd.Val()
	records := make([]games.GameRecord, 0, len(fields))
	for id, data := range fields {
		var rec games.GameRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			r.logger.Warn("Skipping malformed game record", "id", id, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *RedisService) GetGame(ctx context.Context, id string) (*games.GameRecord, error) {
	cmd := r.client.HGet(ctx, gameDataKey, id)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, &StoreError{Op: "get", Err: fmt.Errorf("game %s not found", id)}
		}
		return nil, &StoreError{Op: "get", Err: err}
	}

	var rec games.GameRecord
	if err := json.Unmarshal([]byte(cmd.Val()), &rec); err != nil {
		return nil, &StoreError{Op: "get", Err: fmt.Errorf("malformed game record %s: %w", id, err)}
	}

	return &rec, nil
}

func (r *RedisService) PutGame(ctx context.Context, rec *games.GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &StoreError{Op: "put", Err: fmt.Errorf("failed to marshal game record: %w", err)}
	}

	cmd := r.client.HSet(ctx, gameDataKey, rec.ID, string(data))
	if err := cmd.Err(); err != nil {
		return &StoreError{Op: "put", Err: err}
	}

	r.logger.Debug("Game record saved", "id", rec.ID)
	return nil
}

// GetClient exposes the underlying client for tests
func (r *RedisService) GetClient() *redis.Client {
	return r.client
}
