// Package preprocess cleans Vietnamese article text and filters article batches
// before they are sent to the scoring and summarization services.
package preprocess

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// space matches Unicode whitespace too: RE2's \s is ASCII-only and extracted pages carry NBSP.
const space = `\s\p{Z}\x{85}`

// The order of these expressions matters: each step assumes the previous ones ran.
var (
	urlExpr       = regexp.MustCompile(`https?://[^` + space + `]+|www\.[^` + space + `]+`)
	captionExpr   = regexp.MustCompile(`(?i)(Ảnh|Nguồn|Theo)[` + space + `]*:.*?(\n|$)`)
	timestampExpr = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}[` + space + `]+\d{1,2}:\d{1,2}`)
	disallowed    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\p{Z},.;:?!%()"'-]`)
)

// Clean normalizes raw article text. It never fails; empty or blank input yields "".
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// Vietnamese diacritics may arrive as combining sequences.
	text = norm.NFC.String(text)
	text = urlExpr.ReplaceAllString(text, "")
	text = captionExpr.ReplaceAllString(text, " ")
	text = timestampExpr.ReplaceAllString(text, "")
	text = disallowed.ReplaceAllString(text, " ")

	return strings.Join(strings.Fields(text), " ")
}

// WordCount returns the number of whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
