package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/internal/config"
)

var askFlags struct {
	noStream     bool
	jsonOut      bool
	locale       string
	topK         int
	minScore     float64
	maxCitations int
	industries   []string
	docTypes     []string
	topics       []string
	dateFrom     string
	dateTo       string
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a regulatory question and stream the cited answer",
	Long: `Ask a one-shot question. The answer streams to stdout as it is generated,
followed by its citations and quality panel. Filters narrow retrieval to
matching corpus documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	f := askCmd.Flags()
	f.BoolVar(&askFlags.noStream, "no-stream", false, "wait for the complete answer instead of streaming")
	f.BoolVar(&askFlags.jsonOut, "json", false, "print the raw answer response as JSON")
	f.StringVar(&askFlags.locale, "locale", "", "answer locale (en, ko, ...)")
	f.IntVar(&askFlags.topK, "top-k", 0, "retrieval depth (1-100)")
	f.Float64Var(&askFlags.minScore, "min-score", 0, "retrieval score floor (0.0-1.0)")
	f.IntVar(&askFlags.maxCitations, "max-citations", 0, "citation cap")
	f.StringSliceVar(&askFlags.industries, "industry", nil, "filter by industry code (repeatable)")
	f.StringSliceVar(&askFlags.docTypes, "doc-type", nil, "filter by document type (repeatable)")
	f.StringSliceVar(&askFlags.topics, "topic", nil, "filter by topic code (repeatable)")
	f.StringVar(&askFlags.dateFrom, "date-from", "", "only documents published on or after (YYYY-MM-DD)")
	f.StringVar(&askFlags.dateTo, "date-to", "", "only documents published on or before (YYYY-MM-DD)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := setupLogger(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return err
	}

	req := &regclient.AskRequest{
		Question: strings.Join(args, " "),
		Filters:  buildAskFilters(),
		Params:   buildAskParams(cfg, cmd),
	}

	// Ctrl+C cancels the in-flight answer instead of killing mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, w := range regclient.GetValidationWarnings(backend.Name(), req) {
		fmt.Fprintln(os.Stderr, warnStyle.Render("warning: "+w.Message))
	}

	if askFlags.jsonOut || askFlags.noStream {
		return runAskBlocking(ctx, backend, req, cfg)
	}
	return runAskStreaming(ctx, backend, req, cfg, logger)
}

func runAskBlocking(ctx context.Context, backend regclient.Backend, req *regclient.AskRequest, cfg *config.Config) error {
	resp, err := backend.Ask(ctx, req)
	if err != nil {
		return err
	}

	if askFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	state := regclient.ResponseToState(resp)
	fmt.Println(answerBody(state))
	printAnswerPanels(state, cfg.Defaults.ConfidenceThreshold)
	return nil
}

func runAskStreaming(ctx context.Context, backend regclient.Backend, req *regclient.AskRequest, cfg *config.Config, logger *slog.Logger) error {
	session, err := regclient.Start(ctx, backend, req, &regclient.SessionOptions{Logger: logger})
	if err != nil {
		return err
	}

	// Tokens print as plain deltas while streaming; snapshots coalesce under
	// backpressure but text only ever grows, so the delta is always a suffix.
	printed := 0
	var last regclient.AnswerState
	for state := range session.Updates() {
		if len(state.Text) > printed {
			fmt.Print(state.Text[printed:])
			printed = len(state.Text)
		}
		last = state
	}
	fmt.Println()

	if last.Status == regclient.StatusFailed {
		if last.Cancelled() {
			fmt.Fprintln(os.Stderr, warnStyle.Render(last.ErrorMessage))
			return nil
		}
		return errors.New(last.ErrorMessage)
	}

	printAnswerPanels(last, cfg.Defaults.ConfidenceThreshold)
	return nil
}

// buildAskFilters converts filter flags into request filters.
func buildAskFilters() *regclient.Filters {
	filters := &regclient.Filters{
		Industries: askFlags.industries,
		DocTypes:   askFlags.docTypes,
		Topics:     askFlags.topics,
		DateFrom:   askFlags.dateFrom,
		DateTo:     askFlags.dateTo,
	}
	if filters.Empty() {
		return nil
	}
	return filters
}

// buildAskParams starts from configured defaults and overlays explicit flags.
func buildAskParams(cfg *config.Config, cmd *cobra.Command) *regclient.AskParams {
	params := cfg.AskParams()
	if cmd.Flags().Changed("locale") {
		params.Locale = &askFlags.locale
	}
	if cmd.Flags().Changed("top-k") {
		params.TopK = &askFlags.topK
	}
	if cmd.Flags().Changed("min-score") {
		params.MinScore = &askFlags.minScore
	}
	if cmd.Flags().Changed("max-citations") {
		params.MaxCitations = &askFlags.maxCitations
	}
	return params
}

// Output rendering

var (
	markerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	unresolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	metaStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// answerBody renders the answer with citation markers highlighted.
func answerBody(state regclient.AnswerState) string {
	var sb strings.Builder
	for _, segment := range regclient.Correlate(state.Text, state.Citations) {
		switch {
		case segment.IsText():
			sb.WriteString(segment.Content)
		case segment.Resolved():
			sb.WriteString(markerStyle.Render(segment.MatchedLiteral))
		default:
			sb.WriteString(unresolvedStyle.Render(segment.MatchedLiteral))
		}
	}
	return sb.String()
}

// printAnswerPanels prints the citation list and quality panel after the
// answer body.
func printAnswerPanels(state regclient.AnswerState, threshold float64) {
	if len(state.Citations) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Citations"))
		for _, dc := range regclient.DisplayCitations(state.Citations) {
			fmt.Printf("  [%d] %s\n", dc.Index, dc.Citation.DocumentTitle)
			meta := "      " + dc.Citation.PublishedAt
			if dc.Citation.URL != "" {
				meta += "  " + dc.Citation.URL
			}
			fmt.Println(metaStyle.Render(meta))
		}
	}

	meta := state.Metadata
	if meta == nil {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("Quality"))
	fmt.Printf("  confidence %.2f  groundedness %.2f  coverage %.2f\n",
		meta.Confidence, meta.GroundednessScore, meta.CitationCoverage)
	if meta.HallucinationRisk(threshold) {
		fmt.Println(badStyle.Render("  ⚠ low confidence, verify against the cited sources"))
	}
	if meta.Answerable != nil && !*meta.Answerable {
		fmt.Println(badStyle.Render("  not answerable from the current corpus"))
	}
	if meta.UncertaintyNote != nil && *meta.UncertaintyNote != "" {
		fmt.Println(warnStyle.Render("  " + *meta.UncertaintyNote))
	}
}
