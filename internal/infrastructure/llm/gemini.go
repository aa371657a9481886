package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

// GeminiScorer implements ports.RiskScorer with Google's Gemini models in JSON response mode.
type GeminiScorer struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	caller      caller
}

var _ ports.RiskScorer = (*GeminiScorer)(nil)

// NewGeminiScorer opens a Gemini client. Close releases it.
func NewGeminiScorer(ctx context.Context, cfg config.ScoringConfig, schema Schema, logger *slog.Logger) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", domain.ErrResourceInit, err)
	}

	return &GeminiScorer{
		client:      client,
		model:       cfg.GeminiModel,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
		caller:      newCaller(cfg, schema, logger),
	}, nil
}

// Score asks the model for a JSON assessment of text and validates it.
func (g *GeminiScorer) Score(ctx context.Context, text string) (domain.RiskAssessment, error) {
	return g.caller.score(ctx, text, g.complete)
}

// Close releases the underlying client.
func (g *GeminiScorer) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiScorer) complete(ctx context.Context, system, user string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates in reply", domain.ErrSchema)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: reply has no text", domain.ErrSchema)
	}
	return b.String(), nil
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", domain.ErrTransport, err)
		}
		return fmt.Errorf("%w: status %d: %v", domain.ErrServiceCall, apiErr.Code, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrTransport, err)
}
