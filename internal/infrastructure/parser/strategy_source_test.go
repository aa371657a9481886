package parser

import (
	"context"
	"errors"
	"testing"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/scanner"
)

type stubScanner struct {
	name    string
	results []domain.ArticleStub
	err     error
	got     scanner.Request
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(_ context.Context, req scanner.Request) ([]domain.ArticleStub, error) {
	s.got = req
	return s.results, s.err
}

func stub(url string) domain.ArticleStub {
	return domain.ArticleStub{Keyword: "UBS", Title: url, URL: url}
}

func TestStrategySourceMergesUniqueURLs(t *testing.T) {
	t.Parallel()

	browserScan := &stubScanner{name: "googlenews", results: []domain.ArticleStub{stub("a"), stub("b")}}
	feedScan := &stubScanner{name: "googlenews-rss", results: []domain.ArticleStub{stub("b"), stub("c")}}
	reg := scanner.NewRegistry()
	reg.Register(browserScan)
	reg.Register(feedScan)

	src := NewStrategySource(reg, []config.SourceConfig{
		{Name: "browser", Scanner: "googlenews"},
		{Name: "feed", Scanner: "googlenews-rss", Options: map[string]string{"searchUrl": "x"}},
	}, 30, nil)

	got, err := src.Collect(context.Background(), "UBS")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(got) != 3 || got[0].URL != "a" || got[1].URL != "b" || got[2].URL != "c" {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if browserScan.got.Keyword != "UBS" || browserScan.got.TargetCount != 30 {
		t.Fatalf("unexpected request: %+v", browserScan.got)
	}
	if feedScan.got.Options["searchUrl"] != "x" {
		t.Fatalf("options not forwarded")
	}
}

func TestStrategySourceToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(&stubScanner{name: "googlenews", err: domain.ErrNavigation})
	reg.Register(&stubScanner{name: "googlenews-rss", results: []domain.ArticleStub{stub("a")}})

	src := NewStrategySource(reg, []config.SourceConfig{
		{Name: "browser", Scanner: "googlenews"},
		{Name: "feed", Scanner: "googlenews-rss"},
	}, 10, nil)

	got, err := src.Collect(context.Background(), "UBS")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 article and no error, got %d, %v", len(got), err)
	}
}

func TestStrategySourceAllFailed(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(&stubScanner{name: "googlenews", err: domain.ErrNavigation})

	src := NewStrategySource(reg, []config.SourceConfig{{Name: "browser", Scanner: "googlenews"}}, 10, nil)
	got, err := src.Collect(context.Background(), "UBS")
	if !errors.Is(err, domain.ErrNavigation) || got != nil {
		t.Fatalf("expected ErrNavigation and nil result, got %v, %v", got, err)
	}
}

func TestStrategySourceUnknownScanner(t *testing.T) {
	t.Parallel()

	src := NewStrategySource(scanner.NewRegistry(), []config.SourceConfig{{Name: "x", Scanner: "bing"}}, 10, nil)
	if _, err := src.Collect(context.Background(), "UBS"); err == nil {
		t.Fatalf("expected error for unknown scanner")
	}
}
