package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"NewsRiskScanner/internal/domain"
)

func analyzed(title string, risk *domain.RiskAssessment) domain.AnalyzedArticle {
	return domain.AnalyzedArticle{
		CleanedArticle: domain.CleanedArticle{
			EnrichedArticle: domain.EnrichedArticle{
				ArticleStub: domain.ArticleStub{
					Keyword:   "Credit Suisse",
					Title:     title,
					Source:    "VnExpress",
					Timestamp: "Hôm qua",
					URL:       "https://news.google.com/read/" + title,
				},
				Content: "Nội dung <b>gốc</b> & chi tiết",
			},
			CleanTitle:   title,
			CleanContent: "Nội dung gốc chi tiết",
			WordCount:    5,
		},
		Risk: risk,
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	if got := FileName("Credit Suisse"); got != "news_credit_suisse.json" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := FileName("Ngân Hàng SVB"); got != "news_ngân_hàng_svb.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestJSONRepositorySave(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "data")
	repo := NewJSONRepository(dir, nil)

	records := []domain.AnalyzedArticle{
		analyzed("a", &domain.RiskAssessment{RiskScore: 8, Sentiment: domain.SentimentNegative}),
		analyzed("b", nil),
	}
	records[1].RiskError = "service call failed: transport"

	path, err := repo.Save(context.Background(), "Credit Suisse", records)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "news_credit_suisse.json") {
		t.Fatalf("unexpected path %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	text := string(raw)
	if !strings.HasPrefix(text, "[\n  {") {
		t.Fatalf("expected 2-space indented array, got %q", text[:min(len(text), 20)])
	}
	if !strings.Contains(text, "Nội dung <b>gốc</b> & chi tiết") {
		t.Fatalf("expected unescaped UTF-8 and HTML characters")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0]["title"] != "a" || decoded[0]["clean_content"] != "Nội dung gốc chi tiết" {
		t.Fatalf("flattened fields missing: %v", decoded[0])
	}
	if decoded[1]["risk"] != nil || decoded[1]["risk_error"] == nil {
		t.Fatalf("expected null risk with error on second record: %v", decoded[1])
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind")
	}
}

func TestJSONRepositoryOverwrites(t *testing.T) {
	t.Parallel()

	repo := NewJSONRepository(t.TempDir(), nil)
	ctx := context.Background()
	if _, err := repo.Save(ctx, "UBS", []domain.AnalyzedArticle{analyzed("a", nil), analyzed("b", nil)}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	path, err := repo.Save(ctx, "UBS", []domain.AnalyzedArticle{analyzed("c", nil)})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	raw, _ := os.ReadFile(path)
	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil || len(decoded) != 1 {
		t.Fatalf("expected a single record after overwrite, got %d (%v)", len(decoded), err)
	}
}
