package preprocess

import (
	"strings"

	"NewsRiskScanner/internal/domain"
)

// FilterByKeyword keeps articles whose raw title or content contains keyword, ignoring case.
func FilterByKeyword(articles []domain.EnrichedArticle, keyword string) []domain.EnrichedArticle {
	needle := strings.ToLower(keyword)
	kept := make([]domain.EnrichedArticle, 0, len(articles))
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Title), needle) ||
			strings.Contains(strings.ToLower(article.Content), needle) {
			kept = append(kept, article)
		}
	}
	return kept
}
