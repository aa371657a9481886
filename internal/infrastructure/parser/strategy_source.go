package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
	"NewsRiskScanner/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry    *scanner.Registry
	sources     []config.SourceConfig
	targetCount int
	logger      *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, targetCount int, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:    reg,
		sources:     sources,
		targetCount: targetCount,
		logger:      log,
	}
}

// Collect runs every configured source for keyword. URLs stay unique across sources. A failing
// source is skipped while another one succeeds; the run fails only if no source succeeded.
func (s *StrategySource) Collect(ctx context.Context, keyword string) ([]domain.ArticleStub, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}

	s.debug("collect", "keyword", keyword, "sources", len(s.sources))

	var (
		aggregated []domain.ArticleStub
		errs       []error
		succeeded  int
	)
	seen := map[string]struct{}{}
	for _, src := range s.sources {
		strategy, err := s.registry.Resolve(src.Scanner)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}

		req := scanner.Request{
			Keyword:     keyword,
			TargetCount: s.targetCount,
			Options:     src.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if s.logger != nil {
				s.logger.Warn("source failed", "source", src.Name, "keyword", keyword, "error", err)
			}
			errs = append(errs, fmt.Errorf("scan source %s: %w", src.Name, err))
			continue
		}
		succeeded++

		kept := 0
		for _, stub := range results {
			if _, ok := seen[stub.URL]; ok {
				continue
			}
			seen[stub.URL] = struct{}{}
			aggregated = append(aggregated, stub)
			kept++
		}
		s.debug("source produced articles", "source", src.Name, "count", len(results), "kept", kept)
	}

	if succeeded == 0 {
		return nil, errors.Join(errs...)
	}

	s.debug("strategy source done", "keyword", keyword, "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
