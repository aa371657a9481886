package preprocess

import (
	"log/slog"

	"NewsRiskScanner/internal/domain"
)

// DefaultMinWords is the configured default an article's word count must exceed.
const DefaultMinWords = 20

// Options tunes a preprocessing run.
type Options struct {
	// Keyword enables the relevance filter when non-empty.
	Keyword string
	// MinWords is used as given: an article survives when its word count exceeds it, so 0 drops only empty text.
	MinWords int
	Logger   *slog.Logger
}

// Run applies dedupe, the optional keyword filter, cleaning and the word-count threshold, in that order.
func Run(articles []domain.EnrichedArticle, opts Options) []domain.CleanedArticle {
	minWords := opts.MinWords

	deduped := Dedupe(articles)
	opts.debug("removed duplicates", "before", len(articles), "after", len(deduped))

	relevant := deduped
	if opts.Keyword != "" {
		relevant = FilterByKeyword(deduped, opts.Keyword)
		opts.debug("keyword filter", "keyword", opts.Keyword, "before", len(deduped), "after", len(relevant))
	}

	cleaned := make([]domain.CleanedArticle, 0, len(relevant))
	for _, article := range relevant {
		content := Clean(article.Content)
		words := WordCount(content)
		if words <= minWords {
			continue
		}
		cleaned = append(cleaned, domain.CleanedArticle{
			EnrichedArticle: article,
			CleanTitle:      Clean(article.Title),
			CleanContent:    content,
			WordCount:       words,
		})
	}

	opts.debug("preprocessing done", "kept", len(cleaned), "min_words", minWords)
	return cleaned
}

func (o Options) debug(msg string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}
