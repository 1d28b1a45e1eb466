package tui

import "github.com/charmbracelet/lipgloss"

// Colors used across the dashboard.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
)

// ActiveTab style for the selected tab label.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 2)

// InactiveTab style for unselected tab labels.
var InactiveTab = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 2)

// Header style for panel titles.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// AnswerText style for plain answer prose.
var AnswerText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// CitationMarker style for inline citation markers in the answer.
var CitationMarker = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// UnresolvedMarker style for markers pointing outside the citation list.
var UnresolvedMarker = lipgloss.NewStyle().
	Foreground(colorWarning).
	Bold(true)

// CitationTitle style for citation list entries.
var CitationTitle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))

// CitationMeta style for citation source lines.
var CitationMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// QualityLabel style for quality panel field names.
var QualityLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// QualityGood style for healthy quality readings.
var QualityGood = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// QualityBad style for readings below threshold.
var QualityBad = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true)

// WarningStyle for non-fatal request validation warnings.
var WarningStyle = lipgloss.NewStyle().
	Foreground(colorWarning)

// PromptStyle for the question input label.
var PromptStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// SpinnerStyle for in-flight indicators.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(colorPrimary)

// HelpStyle for the expanded help block.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// severityStyle maps alert severities to a style.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "action-required":
		return lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	case "notice":
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Foreground(colorSecondary)
	}
}
