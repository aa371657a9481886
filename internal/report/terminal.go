// Package report renders finished keyword runs for the operator's terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"NewsRiskScanner/internal/domain"
	"NewsRiskScanner/internal/ports"
)

const (
	titleWidth  = 60
	sourceWidth = 18
	riskWidth   = 6
	moodWidth   = 10
)

// Terminal writes a styled per-keyword table.
type Terminal struct {
	out           io.Writer
	highThreshold int
}

var _ ports.Reporter = (*Terminal)(nil)

// NewTerminal writes to out; scores at or above highThreshold are highlighted.
func NewTerminal(out io.Writer, highThreshold int) *Terminal {
	return &Terminal{out: out, highThreshold: highThreshold}
}

// Report prints a summary header and one row per article.
func (t *Terminal) Report(keyword string, records []domain.AnalyzedArticle) error {
	_, err := io.WriteString(t.out, Render(keyword, records, t.highThreshold)+"\n")
	return err
}

// Render builds the report text without writing it.
func Render(keyword string, records []domain.AnalyzedArticle, highThreshold int) string {
	var (
		scored, high, failed int
		total                int
	)
	for _, rec := range records {
		if rec.Risk == nil {
			failed++
			continue
		}
		scored++
		total += rec.Risk.RiskScore
		if rec.Risk.RiskScore >= highThreshold {
			high++
		}
	}

	summary := fmt.Sprintf("%s: %d articles, %d scored, %d high risk, %d failed", keyword, len(records), scored, high, failed)
	if scored > 0 {
		summary += fmt.Sprintf(", avg risk %.1f", float64(total)/float64(scored))
	}

	lines := []string{headerStyle.Render(summary)}
	if len(records) == 0 {
		return strings.Join(append(lines, dimStyle.Render("no articles")), "\n")
	}

	lines = append(lines, row(
		columnHeaderStyle.Render("Risk"),
		columnHeaderStyle.Render("Sentiment"),
		columnHeaderStyle.Render("Source"),
		columnHeaderStyle.Render("Title"),
	))
	for _, rec := range records {
		risk, mood := dimStyle.Render("-"), dimStyle.Render("-")
		if rec.Risk != nil {
			risk = riskStyle(rec.Risk.RiskScore, highThreshold).Render(strconv.Itoa(rec.Risk.RiskScore))
			mood = string(rec.Risk.Sentiment)
		}
		lines = append(lines, row(risk, mood, sourceStyle.Render(clip(rec.Source, sourceWidth)), clip(rec.Title, titleWidth)))
	}
	return strings.Join(lines, "\n")
}

func row(risk, mood, source, title string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(riskWidth).Render(risk),
		lipgloss.NewStyle().Width(moodWidth).Render(mood),
		lipgloss.NewStyle().Width(sourceWidth+2).Render(source),
		title,
	)
}

func riskStyle(score, high int) lipgloss.Style {
	switch {
	case score >= high:
		return highRiskStyle
	case score >= high/2:
		return mediumRiskStyle
	default:
		return lowRiskStyle
	}
}

func clip(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	return string([]rune(text)[:width-1]) + "…"
}
