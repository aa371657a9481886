// Package extractor resolves article links and pulls their main text.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/infrastructure/browser"
	"NewsRiskScanner/internal/ports"
)

// ReadabilityFetcher follows aggregator redirects in a browser, then downloads the publisher page
// and extracts its readable body.
type ReadabilityFetcher struct {
	browser      ports.BrowserSession
	client       *http.Client
	resolveDelay time.Duration
	userAgent    string
	sleep        func(context.Context, time.Duration) error
	logger       *slog.Logger
}

var _ ports.ContentFetcher = (*ReadabilityFetcher)(nil)

// NewReadabilityFetcher wires a dedicated browser session; a nil client gets the configured timeout.
func NewReadabilityFetcher(session ports.BrowserSession, client *http.Client, cfg config.FetcherConfig, logger *slog.Logger) *ReadabilityFetcher {
	if client == nil {
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ReadabilityFetcher{
		browser:      session,
		client:       client,
		resolveDelay: cfg.ResolveDelay,
		userAgent:    cfg.UserAgent,
		sleep:        browser.Wait,
		logger:       logger,
	}
}

// Fetch returns the article body or "" when any step fails. Failures are logged, never returned.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) string {
	canonical, err := f.resolve(ctx, rawURL)
	if err != nil {
		f.warn("resolve article url", rawURL, err)
		return ""
	}

	text, err := f.extract(ctx, canonical)
	if err != nil {
		f.warn("extract article", canonical, err)
		return ""
	}
	return text
}

func (f *ReadabilityFetcher) resolve(ctx context.Context, rawURL string) (string, error) {
	if err := f.browser.Navigate(ctx, rawURL); err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrNavigation, rawURL, err)
	}
	if err := f.sleep(ctx, f.resolveDelay); err != nil {
		return "", err
	}
	current, err := f.browser.CurrentURL(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: read location: %v", domain.ErrNavigation, err)
	}
	if strings.TrimSpace(current) == "" {
		return rawURL, nil
	}
	return current, nil
}

func (f *ReadabilityFetcher) extract(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %s: %v", domain.ErrExtraction, pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrExtraction, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download: %v", domain.ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: publisher returned %s", domain.ErrExtraction, resp.Status)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("%w: parse: %v", domain.ErrExtraction, err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

func (f *ReadabilityFetcher) warn(msg, url string, err error) {
	if f.logger != nil {
		f.logger.Warn(msg, "url", url, "error", err)
	}
}
