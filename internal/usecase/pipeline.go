package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
	"NewsRiskScanner/internal/preprocess"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Fetcher    ports.ContentFetcher
	Scorer     ports.RiskScorer
	Summarizer ports.Summarizer
	Repository ports.ArticleRepository
	Archive    ports.ArticleArchive
	Notifier   ports.Notifier
	Reporter   ports.Reporter
	Logger     *slog.Logger

	Keywords        []string
	MinWords        int
	FilterByKeyword bool
	AlertThreshold  int
}

// Pipeline implements the keyword risk-scanning workflow.
type Pipeline struct {
	source     ports.ArticleSource
	fetcher    ports.ContentFetcher
	scorer     ports.RiskScorer
	summarizer ports.Summarizer
	repository ports.ArticleRepository
	archive    ports.ArticleArchive
	notifier   ports.Notifier
	reporter   ports.Reporter
	logger     *slog.Logger

	keywords        []string
	minWords        int
	filterByKeyword bool
	alertThreshold  int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:          deps.Source,
		fetcher:         deps.Fetcher,
		scorer:          deps.Scorer,
		summarizer:      deps.Summarizer,
		repository:      deps.Repository,
		archive:         deps.Archive,
		notifier:        deps.Notifier,
		reporter:        deps.Reporter,
		logger:          deps.Logger,
		keywords:        append([]string(nil), deps.Keywords...),
		minWords:        deps.MinWords,
		filterByKeyword: deps.FilterByKeyword,
		alertThreshold:  deps.AlertThreshold,
	}
}

// ProcessAll runs every configured keyword in order. A failing keyword does not stop the
// others; the first failure is returned once all keywords were tried.
func (p *Pipeline) ProcessAll(ctx context.Context) error {
	var first error
	for _, keyword := range p.keywords {
		if err := ctx.Err(); err != nil {
			if first == nil {
				first = err
			}
			break
		}
		if err := p.ProcessKeyword(ctx, keyword); err != nil {
			p.log(slog.LevelError, "keyword failed", "keyword", keyword, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// ProcessKeyword collects, enriches, cleans and scores the news for one keyword and
// persists the analyzed records.
func (p *Pipeline) ProcessKeyword(ctx context.Context, keyword string) error {
	if p.source == nil {
		return nil
	}

	p.log(slog.LevelInfo, "collecting articles", "keyword", keyword)
	stubs, err := p.source.Collect(ctx, keyword)
	if err != nil {
		return fmt.Errorf("collect %q: %w", keyword, err)
	}
	if len(stubs) == 0 {
		p.log(slog.LevelWarn, "no articles found", "keyword", keyword)
		return nil
	}
	p.log(slog.LevelInfo, "articles collected", "keyword", keyword, "count", len(stubs))

	enriched := p.enrich(ctx, stubs)

	opts := preprocess.Options{MinWords: p.minWords, Logger: p.logger}
	if p.filterByKeyword {
		opts.Keyword = keyword
	}
	cleaned := preprocess.Run(enriched, opts)
	p.log(slog.LevelInfo, "articles cleaned", "keyword", keyword, "kept", len(cleaned), "dropped", len(enriched)-len(cleaned))

	records := make([]domain.AnalyzedArticle, 0, len(cleaned))
	for i, article := range cleaned {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.log(slog.LevelDebug, "analyzing article", "keyword", keyword, "index", i+1, "of", len(cleaned), "title", article.CleanTitle)
		records = append(records, p.analyze(ctx, article))
	}

	if p.repository != nil {
		location, err := p.repository.Save(ctx, keyword, records)
		if err != nil {
			return fmt.Errorf("save %q: %w", keyword, err)
		}
		p.log(slog.LevelInfo, "results saved", "keyword", keyword, "path", location, "records", len(records))
	}

	if p.archive != nil {
		if err := p.archive.Archive(ctx, keyword, records); err != nil {
			return fmt.Errorf("archive %q: %w", keyword, err)
		}
	}

	if p.notifier != nil {
		if message := buildDigestMessage(keyword, records, p.alertThreshold); message != "" {
			if err := p.notifier.PublishDigest(ctx, message); err != nil {
				p.log(slog.LevelWarn, "alert digest not delivered", "keyword", keyword, "error", err)
			}
		}
	}

	if p.reporter != nil {
		if err := p.reporter.Report(keyword, records); err != nil {
			p.log(slog.LevelWarn, "report failed", "keyword", keyword, "error", err)
		}
	}

	return nil
}

func (p *Pipeline) enrich(ctx context.Context, stubs []domain.ArticleStub) []domain.EnrichedArticle {
	out := make([]domain.EnrichedArticle, 0, len(stubs))
	for i, stub := range stubs {
		article := domain.EnrichedArticle{ArticleStub: stub}
		if p.fetcher != nil && ctx.Err() == nil {
			article.Content = p.fetcher.Fetch(ctx, stub.URL)
		}
		p.log(slog.LevelDebug, "content fetched", "index", i+1, "of", len(stubs), "url", stub.URL, "chars", len(article.Content))
		out = append(out, article)
	}
	return out
}

// analyze scores and summarizes one article. Service failures are kept on the record.
func (p *Pipeline) analyze(ctx context.Context, article domain.CleanedArticle) domain.AnalyzedArticle {
	record := domain.AnalyzedArticle{CleanedArticle: article}

	if p.scorer != nil {
		risk, err := p.scorer.Score(ctx, article.CleanContent)
		if err != nil {
			record.RiskError = err.Error()
			p.log(slog.LevelWarn, "risk scoring failed", "url", article.URL, "schema", errors.Is(err, domain.ErrSchema), "error", err)
		} else {
			record.Risk = &risk
		}
	}

	if p.summarizer != nil {
		summary, err := p.summarizer.Summarize(ctx, article.CleanContent)
		if err != nil {
			record.SummaryError = err.Error()
			p.log(slog.LevelWarn, "summarization failed", "url", article.URL, "error", err)
		} else {
			record.Summary = summary
		}
	}

	return record
}

// buildDigestMessage lists the records whose risk reaches threshold, or returns "" when none do.
func buildDigestMessage(keyword string, records []domain.AnalyzedArticle, threshold int) string {
	var b strings.Builder
	count := 0
	for _, rec := range records {
		if rec.Risk == nil || rec.Risk.RiskScore < threshold {
			continue
		}
		count++
		fmt.Fprintf(&b, "- %s\nRisk: %d/10 (%s, %s)\n", rec.CleanTitle, rec.Risk.RiskScore, rec.Risk.Sentiment, orNA(rec.Risk.RiskCategory))
		if rec.Risk.Reasoning != "" {
			b.WriteString(rec.Risk.Reasoning + "\n")
		}
		if rec.Summary != "" {
			b.WriteString(rec.Summary + "\n")
		}
		b.WriteString(rec.URL + "\n\n")
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %d high-risk articles\n\n", keyword, count) + strings.TrimRight(b.String(), "\n")
}

func orNA(value string) string {
	if value == "" {
		return domain.NotAvailable
	}
	return value
}

func (p *Pipeline) log(level slog.Level, msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Log(context.Background(), level, msg, args...)
	}
}
