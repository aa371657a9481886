package domain

import (
	"encoding/json"
	"strings"
)

// Placeholder stored when the listing omits a source or timestamp.
const NotAvailable = "N/A"

// ArticleStub is a listing entry observed by a collector before its body is fetched.
type ArticleStub struct {
	Keyword   string `json:"keyword"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}

// EnrichedArticle adds the raw body text. Empty Content means the fetch failed.
type EnrichedArticle struct {
	ArticleStub
	Content string `json:"content"`
}

// CleanedArticle carries normalized text produced by the preprocessing pipeline.
type CleanedArticle struct {
	EnrichedArticle
	CleanTitle   string `json:"clean_title"`
	CleanContent string `json:"clean_content"`
	WordCount    int    `json:"word_count"`
}

// AnalyzedArticle is the persisted record: a cleaned article plus model outputs.
type AnalyzedArticle struct {
	CleanedArticle
	Summary      string          `json:"summary"`
	SummaryError string          `json:"summary_error,omitempty"`
	Risk         *RiskAssessment `json:"risk"`
	RiskError    string          `json:"risk_error,omitempty"`
}

// Sentiment enumerates the labels accepted from the scoring service.
type Sentiment string

const (
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentPositive Sentiment = "Positive"
)

// ParseSentiment matches a label case-insensitively and returns its canonical form.
func ParseSentiment(value string) (Sentiment, bool) {
	for _, s := range []Sentiment{SentimentNegative, SentimentNeutral, SentimentPositive} {
		if strings.EqualFold(strings.TrimSpace(value), string(s)) {
			return s, true
		}
	}
	return "", false
}

// RiskAssessment is the validated result of the risk scoring service.
type RiskAssessment struct {
	RiskScore       int                        `json:"risk_score"`
	Sentiment       Sentiment                  `json:"sentiment"`
	RiskCategory    string                     `json:"risk_category,omitempty"`
	KeyFactors      []string                   `json:"key_factors,omitempty"`
	KeyEntities     []string                   `json:"key_entities,omitempty"`
	Keywords        []string                   `json:"keywords,omitempty"`
	Reasoning       string                     `json:"reasoning,omitempty"`
	PublicationDate *string                    `json:"publication_date,omitempty"`
	Extra           map[string]json.RawMessage `json:"extra,omitempty"`
}
