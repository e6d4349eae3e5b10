package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/quizfighter/quiz-engine/internal/services"
)

// RetryPolicy applies a bounded retry with exponential backoff around a
// backend call site.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Retryable reports whether an error is worth another attempt. Nil
	// retries everything.
	Retryable func(error) bool
}

// DefaultRetryPolicy matches the config mutation contract: 2 attempts
// total, exponential backoff starting at 2s capped at 6s, retrying backend
// errors only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    2,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     6 * time.Second,
		Retryable: func(err error) bool {
			var backendErr *services.BackendError
			return errors.As(err, &backendErr)
		},
	}
}

// Do runs fn until it succeeds, the attempt budget is exhausted, the error
// is not retryable, or the context is done. Returns the last error.
func (rp RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	backoff := rp.InitialBackoff

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= rp.MaxAttempts {
			return err
		}
		if rp.Retryable != nil && !rp.Retryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > rp.MaxBackoff {
			backoff = rp.MaxBackoff
		}
	}
}
