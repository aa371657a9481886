// Package llm scores article risk with hosted chat models that reply in JSON.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/retry"
)

// completeFunc sends one system/user exchange and returns the raw reply text.
type completeFunc func(ctx context.Context, system, user string) (string, error)

// caller holds the policy shared by every provider: rate limit, timeout, retry and validation.
type caller struct {
	schema  Schema
	limiter *rate.Limiter
	timeout time.Duration
	retry   retry.Config
	logger  *slog.Logger
}

func newCaller(cfg config.ScoringConfig, schema Schema, logger *slog.Logger) caller {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return caller{
		schema:  schema,
		limiter: NewLimiter(cfg.RatePerMinute),
		timeout: timeout,
		retry: retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
			Retryable:   IsTransport,
		},
		logger: logger,
	}
}

// NewLimiter allows perMinute calls per minute with no burst. Zero or less disables limiting.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// IsTransport reports whether err is a transient failure worth another attempt.
func IsTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}

func (c caller) score(ctx context.Context, text string, complete completeFunc) (domain.RiskAssessment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RiskAssessment{}, fmt.Errorf("%w: empty text", domain.ErrServiceCall)
	}

	var reply string
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		out, err := complete(callCtx, c.schema.SystemPrompt, c.schema.UserMessage(text))
		if err != nil {
			if IsTransport(err) && c.logger != nil {
				c.logger.Warn("scoring call failed", "error", err)
			}
			return err
		}
		reply = out
		return nil
	})
	if err != nil {
		return domain.RiskAssessment{}, err
	}

	assessment, err := ParseAssessment(reply, c.schema)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("reply rejected", "schema", c.schema.Name, "error", err)
		}
		return domain.RiskAssessment{}, err
	}
	return assessment, nil
}
