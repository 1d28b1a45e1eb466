package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	regclient "github.com/reglens/reglens-go"
)

// Commands for the ask flow.

// startAsk opens a streaming session for the question. Warnings are
// computed up front so the quality panel can show them immediately.
func startAsk(backend regclient.Backend, question string, params *regclient.AskParams) tea.Cmd {
	return func() tea.Msg {
		req := &regclient.AskRequest{
			Question: question,
			Params:   params,
		}
		warnings := regclient.GetValidationWarnings(backend.Name(), req)

		session, err := regclient.Start(context.Background(), backend, req, nil)
		if err != nil {
			return askFailedMsg{Err: err}
		}
		return sessionStartedMsg{Session: session, Warnings: warnings}
	}
}

// waitForUpdate blocks on the session update channel and converts one
// snapshot into a message. The update handler re-arms it until the channel
// closes.
func waitForUpdate(updates <-chan regclient.AnswerState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return answerUpdateMsg{Closed: true}
		}
		return answerUpdateMsg{State: state}
	}
}

// Rendering

// renderAnswer lays out the answer text with citation markers highlighted.
// Markers that resolve to evidence render in the citation accent; markers
// pointing outside the list render in the warning accent.
func renderAnswer(state regclient.AnswerState, width int) string {
	if state.Text == "" {
		return ""
	}

	var sb strings.Builder
	for _, segment := range regclient.Correlate(state.Text, state.Citations) {
		switch {
		case segment.IsText():
			sb.WriteString(AnswerText.Render(segment.Content))
		case segment.Resolved():
			sb.WriteString(CitationMarker.Render(segment.MatchedLiteral))
		default:
			sb.WriteString(UnresolvedMarker.Render(segment.MatchedLiteral))
		}
	}

	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

// renderCitations lays out the evidence list under the answer.
func renderCitations(citations []regclient.Citation) string {
	if len(citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Header.Render("Citations"))
	sb.WriteString("\n")
	for _, dc := range regclient.DisplayCitations(citations) {
		sb.WriteString(CitationTitle.Render(fmt.Sprintf("  [%d] %s", dc.Index, dc.Citation.DocumentTitle)))
		sb.WriteString("\n")
		meta := "      " + dc.Citation.PublishedAt
		if dc.Citation.URL != "" {
			meta += "  •  " + dc.Citation.URL
		}
		sb.WriteString(CitationMeta.Render(meta))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderQuality lays out the answer quality panel: scores, the
// hallucination flag, and answerability.
func renderQuality(meta *regclient.AnswerMetadata, threshold float64) string {
	if meta == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Header.Render("Quality"))
	sb.WriteString("\n")

	confidence := QualityGood
	if meta.HallucinationRisk(threshold) {
		confidence = QualityBad
	}
	sb.WriteString(QualityLabel.Render("  confidence   "))
	sb.WriteString(confidence.Render(fmt.Sprintf("%.2f", meta.Confidence)))
	if meta.HallucinationRisk(threshold) {
		sb.WriteString("  " + QualityBad.Render("⚠ low confidence, verify against sources"))
	}
	sb.WriteString("\n")

	sb.WriteString(QualityLabel.Render("  groundedness "))
	sb.WriteString(fmt.Sprintf("%.2f", meta.GroundednessScore))
	sb.WriteString(QualityLabel.Render("   coverage "))
	sb.WriteString(fmt.Sprintf("%.2f", meta.CitationCoverage))
	sb.WriteString("\n")

	if meta.Answerable != nil && !*meta.Answerable {
		sb.WriteString("  " + QualityBad.Render("Not answerable from the current corpus"))
		sb.WriteString("\n")
	}
	if meta.UncertaintyNote != nil && *meta.UncertaintyNote != "" {
		sb.WriteString("  " + WarningStyle.Render(*meta.UncertaintyNote))
		sb.WriteString("\n")
	}
	if meta.Summary != nil && *meta.Summary != "" {
		sb.WriteString(QualityLabel.Render("  summary      "))
		sb.WriteString(*meta.Summary)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderWarnings lays out non-fatal request validation warnings.
func renderWarnings(warnings []regclient.ValidationWarning) string {
	if len(warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(WarningStyle.Render("  ⚠ " + w.Message))
		sb.WriteString("\n")
	}
	return sb.String()
}
