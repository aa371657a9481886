package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/infrastructure/browser"
	"NewsRiskScanner/internal/ports"
	"NewsRiskScanner/internal/scanner"
)

// GoogleNewsScannerName is the registry key of the scrolling collector.
const GoogleNewsScannerName = "googlenews"

// GoogleNewsScanner searches news.google.com in a browser and scrolls the result list until
// enough unique articles are collected or the page stops growing.
type GoogleNewsScanner struct {
	browser     ports.BrowserSession
	homeURL     string
	baseURL     string
	selectors   config.SelectorsConfig
	settleDelay time.Duration
	scrollDelay time.Duration
	patience    int
	sleep       func(context.Context, time.Duration) error
	logger      *slog.Logger
}

var _ scanner.Scanner = (*GoogleNewsScanner)(nil)

// NewGoogleNewsScanner binds the collector to an owned browser session.
func NewGoogleNewsScanner(session ports.BrowserSession, cfg config.CollectorConfig, logger *slog.Logger) *GoogleNewsScanner {
	patience := cfg.Patience
	if patience <= 0 {
		patience = 3
	}
	return &GoogleNewsScanner{
		browser:     session,
		homeURL:     cfg.HomeURL,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		selectors:   cfg.Selectors,
		settleDelay: cfg.SettleDelay,
		scrollDelay: cfg.ScrollDelay,
		patience:    patience,
		sleep:       browser.Wait,
		logger:      logger,
	}
}

// Name identifies the strategy inside the registry.
func (g *GoogleNewsScanner) Name() string {
	return GoogleNewsScannerName
}

// Scan runs one collection session. Any browser failure aborts the session without partial results.
func (g *GoogleNewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ArticleStub, error) {
	if err := g.search(ctx, req.Keyword); err != nil {
		return nil, err
	}

	target := req.TargetCount
	if target <= 0 {
		target = scanner.DefaultTargetCount
	}

	results := make([]domain.ArticleStub, 0, target)
	seenURLs := map[string]struct{}{}
	stalls := 0

	for {
		source, err := g.browser.PageSource(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: read page source: %v", domain.ErrNavigation, err)
		}

		added, err := g.extract(source, req.Keyword, seenURLs, &results)
		if err != nil {
			return nil, fmt.Errorf("%w: parse listing: %v", domain.ErrNavigation, err)
		}
		g.debug("listing parsed", "keyword", req.Keyword, "new", added, "total", len(results))

		if len(results) >= target {
			break
		}

		before, err := g.browser.ScrollHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: measure page: %v", domain.ErrNavigation, err)
		}
		if err := g.browser.ScrollToBottom(ctx); err != nil {
			return nil, fmt.Errorf("%w: scroll: %v", domain.ErrNavigation, err)
		}
		if err := g.sleep(ctx, g.scrollDelay); err != nil {
			return nil, err
		}
		after, err := g.browser.ScrollHeight(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: measure page: %v", domain.ErrNavigation, err)
		}

		if after == before {
			stalls++
			g.debug("page did not grow", "keyword", req.Keyword, "stalls", stalls, "patience", g.patience)
			if stalls >= g.patience {
				break
			}
		} else {
			stalls = 0
		}
	}

	return results, nil
}

func (g *GoogleNewsScanner) search(ctx context.Context, keyword string) error {
	if err := g.browser.Navigate(ctx, g.homeURL); err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrNavigation, g.homeURL, err)
	}
	if err := g.browser.Submit(ctx, g.selectors.SearchInput, keyword); err != nil {
		return fmt.Errorf("%w: search %q: %v", domain.ErrNavigation, keyword, err)
	}
	return g.sleep(ctx, g.settleDelay)
}

// extract appends listing entries whose URL has not been seen and reports how many were added.
func (g *GoogleNewsScanner) extract(source, keyword string, seenURLs map[string]struct{}, results *[]domain.ArticleStub) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return 0, err
	}

	added := 0
	doc.Find(g.selectors.Article).Each(func(_ int, item *goquery.Selection) {
		link := item.Find(g.selectors.Link).First()
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		articleURL := normalizeHref(g.baseURL, href)
		if _, dup := seenURLs[articleURL]; dup {
			return
		}
		seenURLs[articleURL] = struct{}{}

		*results = append(*results, domain.ArticleStub{
			Keyword:   keyword,
			Title:     strings.TrimSpace(link.Text()),
			Source:    textOrNA(item.Find(g.selectors.Source).First()),
			Timestamp: textOrNA(item.Find(g.selectors.Timestamp).First()),
			URL:       articleURL,
		})
		added++
	})

	return added, nil
}

// normalizeHref turns the listing's relative "./articles/..." links into absolute URLs.
func normalizeHref(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	href = strings.TrimLeft(href, ".")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}

func textOrNA(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return domain.NotAvailable
	}
	return strings.TrimSpace(sel.Text())
}

func (g *GoogleNewsScanner) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
