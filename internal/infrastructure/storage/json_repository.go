package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

// JSONRepository writes one pretty-printed JSON array per keyword.
type JSONRepository struct {
	dir    string
	logger *slog.Logger
}

var _ ports.ArticleRepository = (*JSONRepository)(nil)

// NewJSONRepository stores artifacts under dir, creating it on first save.
func NewJSONRepository(dir string, logger *slog.Logger) *JSONRepository {
	if dir == "" {
		dir = "data"
	}
	return &JSONRepository{dir: dir, logger: logger}
}

// FileName maps a keyword to its artifact name, e.g. "Credit Suisse" -> "news_credit_suisse.json".
func FileName(keyword string) string {
	return "news_" + strings.ToLower(strings.ReplaceAll(keyword, " ", "_")) + ".json"
}

// Save replaces the keyword's artifact atomically and returns its path.
func (r *JSONRepository) Save(_ context.Context, keyword string, records []domain.AnalyzedArticle) (string, error) {
	if records == nil {
		records = []domain.AnalyzedArticle{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.dir, FileName(keyword))
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write temporary artifact: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("save artifact: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("artifact saved", "keyword", keyword, "path", path, "records", len(records))
	}
	return path, nil
}
