package ports

import (
	"context"
	"time"

	"NewsRiskScanner/internal/domain"
)

// BrowserSession drives one headless browser tab. Sessions are not shared between components.
type BrowserSession interface {
	Navigate(ctx context.Context, url string) error
	// Submit types text into the element matched by selector and presses Enter.
	Submit(ctx context.Context, selector, text string) error
	PageSource(ctx context.Context) (string, error)
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Close() error
}

// ArticleSource collects listing entries for a keyword from the configured providers.
type ArticleSource interface {
	Collect(ctx context.Context, keyword string) ([]domain.ArticleStub, error)
}

// ContentFetcher resolves an article URL and returns its main text, or "" on failure.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// RiskScorer asks an LLM to rate the financial risk expressed by an article.
type RiskScorer interface {
	Score(ctx context.Context, text string) (domain.RiskAssessment, error)
}

// Summarizer generates abstractive summaries of cleaned article text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ArticleRepository writes the per-keyword artifact and returns its location.
type ArticleRepository interface {
	Save(ctx context.Context, keyword string, records []domain.AnalyzedArticle) (string, error)
}

// ArticleArchive keeps analyzed records across runs.
type ArticleArchive interface {
	Archive(ctx context.Context, keyword string, records []domain.AnalyzedArticle) error
}

// Notifier streams selected digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Reporter presents a finished keyword run to the operator.
type Reporter interface {
	Report(keyword string, records []domain.AnalyzedArticle) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
