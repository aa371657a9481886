package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

// GroqScorer implements ports.RiskScorer against Groq's OpenAI-compatible chat API.
type GroqScorer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	caller      caller
}

var _ ports.RiskScorer = (*GroqScorer)(nil)

// NewGroqScorer builds a client from configuration. A nil httpClient uses the library default.
func NewGroqScorer(cfg config.ScoringConfig, schema Schema, httpClient *http.Client, logger *slog.Logger) *GroqScorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &GroqScorer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		caller:      newCaller(cfg, schema, logger),
	}
}

// Score asks the model for a JSON assessment of text and validates it.
func (g *GroqScorer) Score(ctx context.Context, text string) (domain.RiskAssessment, error) {
	return g.caller.score(ctx, text, g.complete)
}

func (g *GroqScorer) complete(ctx context.Context, system, user string) (string, error) {
	temperature := g.temperature
	if temperature == 0 {
		// The request omits a zero temperature, which the API reads as its default.
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in reply", domain.ErrSchema)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError separates retryable transport failures from rejected requests.
func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	return fmt.Errorf("%w: status %d: %v", domain.ErrServiceCall, status, err)
}
