package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/backends/mock"
	"github.com/reglens/reglens-go/backends/regapi"
	"github.com/reglens/reglens-go/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Interactive dashboard for questions and corpus browsing",
	Long: `Launch the terminal dashboard with tabs for chat, documents, topics,
alerts, checklists, and analytics.

With --backend mock the dashboard runs entirely offline against canned
fixtures. No API key needed.`,
	RunE: runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The dashboard owns the terminal; logs go to the configured file or
	// nowhere.
	logger, cleanup, err := setupLogger(cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	var backend regclient.Backend
	var source tui.DataSource

	if cfg.Backend == regclient.BackendMock.String() {
		backend = mock.New(mock.Config{})
		source = tui.DemoSource{}
	} else {
		client, err := regapi.New(regapi.Config{
			APIKey:            cfg.API.Key,
			BaseURL:           cfg.API.BaseURL,
			Logger:            logger,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Timeout:           cfg.API.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create regapi backend: %w", err)
		}
		backend = client
		source = client
	}

	model := tui.New(tui.Options{
		Backend:             backend,
		Source:              source,
		Params:              cfg.AskParams(),
		ConfidenceThreshold: cfg.Defaults.ConfidenceThreshold,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
