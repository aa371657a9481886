package scanner

import (
	"context"
	"testing"

	"NewsRiskScanner/internal/domain"
)

type namedScanner string

func (n namedScanner) Name() string { return string(n) }

func (n namedScanner) Scan(context.Context, Request) ([]domain.ArticleStub, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(namedScanner("googlenews"))

	got, err := reg.Resolve("googlenews")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name() != "googlenews" {
		t.Fatalf("unexpected scanner %q", got.Name())
	}

	if _, err := reg.Resolve("bing"); err == nil {
		t.Fatalf("expected error for unknown scanner")
	}
}
