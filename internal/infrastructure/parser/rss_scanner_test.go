package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/scanner"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>"Credit Suisse" - Google Tin tức</title>
<item><title>Credit Suisse sụp đổ - VnExpress</title><link>https://news.google.com/rss/articles/A1</link>
<pubDate>Mon, 20 Mar 2023 07:00:00 GMT</pubDate></item>
<item><title>UBS - Credit Suisse: thương vụ lịch sử - Tuổi Trẻ</title><link>https://news.google.com/rss/articles/A2</link></item>
<item><title>Tin trùng - VnExpress</title><link>https://news.google.com/rss/articles/A1</link></item>
<item><title>Không có nguồn</title><link>https://news.google.com/rss/articles/A3</link></item>
</channel></rss>`

func TestBuildSearchURL(t *testing.T) {
	t.Parallel()

	u, err := buildSearchURL("https://news.google.com/rss/search?hl=vi&gl=VN&ceid=VN:vi", "Credit Suisse")
	if err != nil {
		t.Fatalf("buildSearchURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := parsed.Query()
	if q.Get("q") != "Credit Suisse" || q.Get("hl") != "vi" || q.Get("ceid") != "VN:vi" {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	s := NewRSSScanner(srv.Client(), config.RSSConfig{SearchURL: srv.URL + "/rss/search?hl=vi"}, nil)
	got, err := s.Scan(context.Background(), scanner.Request{Keyword: "Credit Suisse", TargetCount: 10})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if gotQuery != "Credit Suisse" {
		t.Fatalf("unexpected search query %q", gotQuery)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 unique items, got %d", len(got))
	}
	if got[0].Title != "Credit Suisse sụp đổ" || got[0].Source != "VnExpress" {
		t.Fatalf("unexpected first stub: %+v", got[0])
	}
	if got[0].Timestamp == domain.NotAvailable {
		t.Fatalf("expected pubDate to be kept")
	}
	if got[1].Title != "UBS - Credit Suisse: thương vụ lịch sử" || got[1].Source != "Tuổi Trẻ" {
		t.Fatalf("title split on the wrong separator: %+v", got[1])
	}
	if got[2].Source != domain.NotAvailable || got[2].Timestamp != domain.NotAvailable {
		t.Fatalf("expected N/A placeholders: %+v", got[2])
	}
}

func TestRSSScannerTruncatesToTarget(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	s := NewRSSScanner(srv.Client(), config.RSSConfig{SearchURL: srv.URL}, nil)
	got, err := s.Scan(context.Background(), scanner.Request{Keyword: "UBS", TargetCount: 1})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
}

func TestRSSScannerHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewRSSScanner(srv.Client(), config.RSSConfig{SearchURL: srv.URL}, nil)
	if _, err := s.Scan(context.Background(), scanner.Request{Keyword: "UBS"}); !errors.Is(err, domain.ErrNavigation) {
		t.Fatalf("expected ErrNavigation, got %v", err)
	}
}
