package report

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#0969DA")
	accentColor  = lipgloss.Color("#2DA44E")
	warningColor = lipgloss.Color("#D29922")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
	sourceColor  = lipgloss.Color("#FFA657")

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	columnHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle          = lipgloss.NewStyle().Foreground(dimColor)
	sourceStyle       = lipgloss.NewStyle().Foreground(sourceColor)
	lowRiskStyle      = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	mediumRiskStyle   = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	highRiskStyle     = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)
