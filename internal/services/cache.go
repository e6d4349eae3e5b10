package services

import (
	"context"
	"time"
)

// Cache defines the interface for short-lived key/value caching (generated
// search queries). Get returns "" without error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
