package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/scanner"
)

// RSSScannerName is the registry key of the feed-based collector.
const RSSScannerName = "googlenews-rss"

// RSSScanner queries the Google News RSS search endpoint. It needs no browser but the feed is
// capped by the provider, so it serves as a lightweight complement to the scrolling collector.
type RSSScanner struct {
	client    *http.Client
	searchURL string
	logger    *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner wires an HTTP client; a nil client gets the configured timeout.
func NewRSSScanner(client *http.Client, cfg config.RSSConfig, logger *slog.Logger) *RSSScanner {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RSSScanner{client: client, searchURL: cfg.SearchURL, logger: logger}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return RSSScannerName
}

// Scan fetches the search feed for the keyword and converts entries into stubs.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ArticleStub, error) {
	searchURL := r.searchURL
	if override := req.Options["searchUrl"]; override != "" {
		searchURL = override
	}

	feedURL, err := buildSearchURL(searchURL, req.Keyword)
	if err != nil {
		return nil, err
	}

	feed, err := r.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNavigation, err)
	}

	target := req.TargetCount
	if target <= 0 {
		target = scanner.DefaultTargetCount
	}

	results := make([]domain.ArticleStub, 0, min(target, len(feed.Items)))
	seen := map[string]struct{}{}
	for _, item := range feed.Items {
		if len(results) >= target {
			break
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}

		title, source := splitTitleSource(item.Title)
		timestamp := strings.TrimSpace(item.Published)
		if timestamp == "" {
			timestamp = domain.NotAvailable
		}

		results = append(results, domain.ArticleStub{
			Keyword:   req.Keyword,
			Title:     title,
			Source:    source,
			Timestamp: timestamp,
			URL:       link,
		})
	}

	if r.logger != nil {
		r.logger.Debug("feed parsed", "keyword", req.Keyword, "items", len(feed.Items), "kept", len(results))
	}
	return results, nil
}

func (r *RSSScanner) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRiskScanner/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// splitTitleSource separates Google News' "Headline - Publisher" titles.
func splitTitleSource(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, " - ")
	if idx <= 0 {
		return raw, domain.NotAvailable
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+3:])
}

func buildSearchURL(base, keyword string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("q", keyword)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
