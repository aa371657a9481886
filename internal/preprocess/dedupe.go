package preprocess

import "NewsRiskScanner/internal/domain"

// Dedupe keeps the first article per exact raw title and preserves order.
// It must run before cleaning: cleaned titles collapse more aggressively.
func Dedupe(articles []domain.EnrichedArticle) []domain.EnrichedArticle {
	seen := make(map[string]struct{}, len(articles))
	kept := make([]domain.EnrichedArticle, 0, len(articles))
	for _, article := range articles {
		if _, ok := seen[article.Title]; ok {
			continue
		}
		seen[article.Title] = struct{}{}
		kept = append(kept, article)
	}
	return kept
}
