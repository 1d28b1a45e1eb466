package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/backends/regapi"
)

const resourceTimeout = 10 * time.Second

// DataSource supplies the dashboard's resource views. *regapi.Client
// satisfies it; demo mode uses canned fixtures.
type DataSource interface {
	ListDocuments(ctx context.Context, q *regapi.DocumentQuery) ([]regclient.Document, error)
	ListTopics(ctx context.Context) ([]regclient.Topic, error)
	ListAlerts(ctx context.Context) ([]regclient.Alert, error)
	ListChecklists(ctx context.Context, industry string) ([]regclient.Checklist, error)
	AnalyticsSummary(ctx context.Context) (*regclient.AnalyticsSummary, error)
}

// Commands

func loadDocuments(source DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resourceTimeout)
		defer cancel()

		docs, err := source.ListDocuments(ctx, &regapi.DocumentQuery{Limit: 100})
		if err != nil {
			return documentsLoadedMsg{Err: fmt.Errorf("failed to load documents: %w", err)}
		}
		return documentsLoadedMsg{Documents: docs}
	}
}

func loadTopics(source DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resourceTimeout)
		defer cancel()

		topics, err := source.ListTopics(ctx)
		if err != nil {
			return topicsLoadedMsg{Err: fmt.Errorf("failed to load topics: %w", err)}
		}
		return topicsLoadedMsg{Topics: topics}
	}
}

func loadAlerts(source DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resourceTimeout)
		defer cancel()

		alerts, err := source.ListAlerts(ctx)
		if err != nil {
			return alertsLoadedMsg{Err: fmt.Errorf("failed to load alerts: %w", err)}
		}
		return alertsLoadedMsg{Alerts: alerts}
	}
}

func loadChecklists(source DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resourceTimeout)
		defer cancel()

		lists, err := source.ListChecklists(ctx, "")
		if err != nil {
			return checklistsLoadedMsg{Err: fmt.Errorf("failed to load checklists: %w", err)}
		}
		return checklistsLoadedMsg{Checklists: lists}
	}
}

func loadAnalytics(source DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resourceTimeout)
		defer cancel()

		summary, err := source.AnalyticsSummary(ctx)
		if err != nil {
			return analyticsLoadedMsg{Err: fmt.Errorf("failed to load analytics: %w", err)}
		}
		return analyticsLoadedMsg{Summary: summary}
	}
}

// List items

type documentItem struct {
	doc regclient.Document
}

func (d documentItem) FilterValue() string { return d.doc.Title }
func (d documentItem) Title() string       { return d.doc.Title }
func (d documentItem) Description() string {
	return fmt.Sprintf("%s  •  %s  •  published %s", d.doc.DocType, d.doc.Regulator, d.doc.PublishedAt)
}

type alertItem struct {
	alert regclient.Alert
}

func (a alertItem) FilterValue() string { return a.alert.Title }
func (a alertItem) Title() string {
	badge := severityStyle(a.alert.Severity).Render("[" + a.alert.Severity + "]")
	return badge + " " + a.alert.Title
}
func (a alertItem) Description() string {
	desc := "published " + a.alert.PublishedAt
	if a.alert.Deadline != "" {
		desc += "  •  deadline " + a.alert.Deadline
	}
	return desc
}

type checklistItem struct {
	list regclient.Checklist
}

func (c checklistItem) FilterValue() string { return c.list.Title }
func (c checklistItem) Title() string       { return c.list.Title }
func (c checklistItem) Description() string {
	return fmt.Sprintf("%s  •  %d items  •  updated %s", c.list.Industry, len(c.list.Items), c.list.UpdatedAt)
}
