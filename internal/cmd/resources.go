package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/backends/regapi"
	"github.com/reglens/reglens-go/internal/config"
	"github.com/reglens/reglens-go/internal/tui"
)

var docsFlags struct {
	industry string
	docType  string
	topic    string
	limit    int
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List corpus documents",
	RunE:  runDocs,
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List corpus topics",
	RunE:  runTopics,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List regulatory change alerts",
	RunE:  runAlerts,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(alertsCmd)

	f := docsCmd.Flags()
	f.StringVar(&docsFlags.industry, "industry", "", "filter by industry code")
	f.StringVar(&docsFlags.docType, "doc-type", "", "filter by document type")
	f.StringVar(&docsFlags.topic, "topic", "", "filter by topic code")
	f.IntVar(&docsFlags.limit, "limit", 50, "maximum documents to list")
}

// buildDataSource returns the resource data plane for the configured
// backend: the HTTP client for regapi, canned fixtures for mock.
func buildDataSource(cfg *config.Config, logger *slog.Logger) (tui.DataSource, error) {
	if cfg.Backend == regclient.BackendMock.String() {
		return tui.DemoSource{}, nil
	}
	client, err := regapi.New(regapi.Config{
		APIKey:            cfg.API.Key,
		BaseURL:           cfg.API.BaseURL,
		Logger:            logger,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Timeout:           cfg.API.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create regapi client: %w", err)
	}
	return client, nil
}

func resourceContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := setupLogger(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := buildDataSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := resourceContext()
	defer cancel()

	docs, err := source.ListDocuments(ctx, &regapi.DocumentQuery{
		Industry: docsFlags.industry,
		DocType:  docsFlags.docType,
		Topic:    docsFlags.topic,
		Limit:    docsFlags.limit,
	})
	if err != nil {
		return err
	}

	for _, d := range docs {
		fmt.Printf("%s  %s\n", d.PublishedAt, d.Title)
		fmt.Println(metaStyle.Render(fmt.Sprintf("            %s  %s  %s", d.ID, d.DocType, d.Regulator)))
	}
	fmt.Println(metaStyle.Render(fmt.Sprintf("%d documents", len(docs))))
	return nil
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := setupLogger(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := buildDataSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := resourceContext()
	defer cancel()

	topics, err := source.ListTopics(ctx)
	if err != nil {
		return err
	}

	for _, t := range topics {
		fmt.Printf("%-20s %s", t.Code, t.Label)
		fmt.Println(metaStyle.Render(fmt.Sprintf("  (%d docs)", t.DocumentCount)))
	}
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, cleanup, err := setupLogger(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := buildDataSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := resourceContext()
	defer cancel()

	alerts, err := source.ListAlerts(ctx)
	if err != nil {
		return err
	}

	for _, a := range alerts {
		severity := fmt.Sprintf("[%s]", a.Severity)
		if a.Severity == regclient.AlertSeverityActionRequired {
			severity = badStyle.Render(severity)
		} else if a.Severity == regclient.AlertSeverityNotice {
			severity = warnStyle.Render(severity)
		}
		fmt.Printf("%s %s  %s\n", a.PublishedAt, severity, a.Title)
		if a.Deadline != "" {
			fmt.Println(warnStyle.Render("            deadline " + a.Deadline))
		}
	}
	return nil
}
