// Package retry re-runs outbound service calls that fail transiently.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls how many times a call is attempted.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // linear backoff by attempt number
	// Retryable reports whether an error may be retried. Nil retries everything.
	Retryable func(error) bool
}

// Do runs fn until it succeeds, the attempts are exhausted, or an error is not retryable.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := cfg.Delay
		if cfg.Backoff {
			delay = time.Duration(attempt) * cfg.Delay
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
