// Package ml calls a hosted sequence-to-sequence model to summarize Vietnamese news.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
	"NewsRiskScanner/internal/retry"
)

const (
	inputPrefix   = "vietnews: "
	inputSuffix   = " </s>"
	minInputRunes = 50
)

// Client talks to a Hugging Face style inference endpoint.
type Client struct {
	endpoint       string
	apiKey         string
	http           *http.Client
	maxInputTokens int
	minLength      int
	maxLength      int
	numBeams       int
	limiter        *rate.Limiter
	retry          retry.Config
	logger         *slog.Logger
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient creates a reusable HTTP client from configuration.
func NewClient(cfg config.SummarizerConfig, limiter *rate.Limiter, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Client{
		endpoint:       cfg.Endpoint,
		apiKey:         cfg.APIToken,
		http:           &http.Client{Timeout: timeout},
		maxInputTokens: cfg.MaxInputTokens,
		minLength:      cfg.MinLength,
		maxLength:      cfg.MaxLength,
		numBeams:       cfg.NumBeams,
		limiter:        limiter,
		retry: retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
			Retryable:   isTransport,
		},
		logger: logger,
	}
}

type summarizeRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters generationParams `json:"parameters"`
	Options    requestOptions   `json:"options"`
}

type generationParams struct {
	MinLength         int  `json:"min_length"`
	MaxLength         int  `json:"max_length"`
	NumBeams          int  `json:"num_beams"`
	NoRepeatNgramSize int  `json:"no_repeat_ngram_size"`
	EarlyStopping     bool `json:"early_stopping"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type summaryItem struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

// Summarize returns an abstractive summary. Text shorter than 50 characters yields "" without a call.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minInputRunes {
		return "", nil
	}

	payload := summarizeRequest{
		Inputs: inputPrefix + capTokens(text, c.maxInputTokens) + inputSuffix,
		Parameters: generationParams{
			MinLength:         c.minLength,
			MaxLength:         c.maxLength,
			NumBeams:          c.numBeams,
			NoRepeatNgramSize: 3,
			EarlyStopping:     true,
		},
		Options: requestOptions{WaitForModel: true},
	}

	var resp []summaryItem
	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		resp = nil
		return c.post(ctx, payload, &resp)
	})
	if err != nil {
		return "", err
	}

	if len(resp) == 0 {
		return "", fmt.Errorf("%w: empty summary list", domain.ErrSchema)
	}
	summary := resp[0].SummaryText
	if summary == "" {
		summary = resp[0].GeneratedText
	}
	return strings.TrimSpace(summary), nil
}

// capTokens keeps the first limit whitespace-delimited tokens of text.
func capTokens(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	fields := strings.Fields(text)
	if len(fields) <= limit {
		return text
	}
	return strings.Join(fields[:limit], " ")
}

func (c *Client) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: new request: %v", domain.ErrServiceCall, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		kind := domain.ErrServiceCall
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			kind = domain.ErrTransport
		}
		if c.logger != nil {
			c.logger.Warn("summarizer returned error", "status", resp.StatusCode)
		}
		return fmt.Errorf("%w: unexpected status %s: %s", kind, resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrSchema, err)
	}
	return nil
}

func isTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}
