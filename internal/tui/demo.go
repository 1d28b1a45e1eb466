package tui

import (
	"context"

	regclient "github.com/reglens/reglens-go"
	"github.com/reglens/reglens-go/backends/regapi"
)

// DemoSource is a DataSource backed by canned fixtures. It pairs with the
// mock backend so the dashboard runs without credentials. Document IDs match
// the mock backend's citation set.
type DemoSource struct{}

func (DemoSource) ListDocuments(_ context.Context, q *regapi.DocumentQuery) ([]regclient.Document, error) {
	docs := []regclient.Document{
		{
			ID:          "doc-efta-2025",
			Title:       "Electronic Financial Transactions Act - 2025 Amendment",
			DocType:     "law",
			Regulator:   "Financial Services Commission",
			Industries:  []string{"fintech", "payments"},
			Topics:      []string{"virtual-assets", "kyc"},
			PublishedAt: "2025-03-14",
			EffectiveAt: "2025-09-01",
			URL:         "https://law.example.gov/efta/2025",
		},
		{
			ID:          "doc-fsc-2025-07",
			Title:       "FSC Supervisory Guideline 2025-07",
			DocType:     "guideline",
			Regulator:   "Financial Services Commission",
			Industries:  []string{"banking", "fintech"},
			Topics:      []string{"aml", "disclosure"},
			PublishedAt: "2025-05-02",
			EffectiveAt: "2025-07-01",
			URL:         "https://fsc.example.gov/guidelines/2025-07",
		},
		{
			ID:          "doc-enforce-118",
			Title:       "Enforcement Decree Article 118 Commentary",
			DocType:     "decree",
			Regulator:   "Ministry of Economy and Finance",
			Industries:  []string{"banking", "securities"},
			Topics:      []string{"capital-adequacy"},
			PublishedAt: "2025-06-21",
			EffectiveAt: "2025-06-21",
			URL:         "https://law.example.gov/decree/118",
		},
		{
			ID:          "doc-privacy-guide",
			Title:       "Personal Data Handling Guide for Financial Institutions",
			DocType:     "guideline",
			Regulator:   "Personal Information Protection Commission",
			Industries:  []string{"banking", "insurance", "fintech"},
			Topics:      []string{"data-privacy"},
			PublishedAt: "2025-01-30",
			EffectiveAt: "2025-03-01",
			URL:         "https://pipc.example.gov/guides/finance",
		},
	}

	if q != nil && q.Limit > 0 && q.Limit < len(docs) {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (DemoSource) ListTopics(context.Context) ([]regclient.Topic, error) {
	return []regclient.Topic{
		{Code: "aml", Label: "Anti-Money Laundering", Description: "Customer due diligence, suspicious transaction reporting.", DocumentCount: 42},
		{Code: "virtual-assets", Label: "Virtual Assets", Description: "VASP registration, travel rule, custody.", DocumentCount: 27},
		{Code: "kyc", Label: "Know Your Customer", Description: "Identity verification and onboarding controls.", DocumentCount: 31},
		{Code: "capital-adequacy", Label: "Capital Adequacy", Description: "Capital ratios and buffers.", DocumentCount: 19},
		{Code: "data-privacy", Label: "Data Privacy", Description: "Personal data handling in financial services.", DocumentCount: 23},
	}, nil
}

func (DemoSource) ListAlerts(context.Context) ([]regclient.Alert, error) {
	return []regclient.Alert{
		{
			ID:          "alert-0001",
			Title:       "EFTA amendment reporting forms change on September 1",
			Severity:    regclient.AlertSeverityActionRequired,
			DocumentID:  "doc-efta-2025",
			PublishedAt: "2025-08-02",
			Deadline:    "2025-09-01",
			Body:        "Quarterly reports filed after the effective date must use the revised forms.",
		},
		{
			ID:          "alert-0002",
			Title:       "FSC opens consultation on AML guideline revision",
			Severity:    regclient.AlertSeverityNotice,
			DocumentID:  "doc-fsc-2025-07",
			PublishedAt: "2025-07-18",
			Body:        "Comments accepted for sixty days.",
		},
		{
			ID:          "alert-0003",
			Title:       "Commentary published for Enforcement Decree Article 118",
			Severity:    regclient.AlertSeverityInfo,
			DocumentID:  "doc-enforce-118",
			PublishedAt: "2025-06-21",
			Body:        "Annexed commentary clarifies implementation criteria.",
		},
	}, nil
}

func (DemoSource) ListChecklists(_ context.Context, industry string) ([]regclient.Checklist, error) {
	lists := []regclient.Checklist{
		{
			ID:       "chk-vasp-onboarding",
			Title:    "VASP Customer Onboarding",
			Industry: "fintech",
			Items: []regclient.ChecklistItem{
				{ID: "chk-vasp-onboarding-1", Text: "Verify customer identity against approved documents", Required: true, DocumentID: "doc-efta-2025"},
				{ID: "chk-vasp-onboarding-2", Text: "Screen against sanctions lists before first transaction", Required: true, DocumentID: "doc-fsc-2025-07"},
				{ID: "chk-vasp-onboarding-3", Text: "Record beneficial ownership for corporate accounts", Required: false, DocumentID: "doc-fsc-2025-07"},
			},
			UpdatedAt: "2025-07-10",
		},
		{
			ID:       "chk-quarterly-reporting",
			Title:    "Quarterly Regulatory Reporting",
			Industry: "banking",
			Items: []regclient.ChecklistItem{
				{ID: "chk-quarterly-reporting-1", Text: "File within thirty days of quarter end", Required: true, DocumentID: "doc-efta-2025"},
				{ID: "chk-quarterly-reporting-2", Text: "Use revised forms for periods after the effective date", Required: true, DocumentID: "doc-efta-2025"},
			},
			UpdatedAt: "2025-08-02",
		},
	}

	if industry == "" {
		return lists, nil
	}
	var filtered []regclient.Checklist
	for _, l := range lists {
		if l.Industry == industry {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

func (DemoSource) AnalyticsSummary(context.Context) (*regclient.AnalyticsSummary, error) {
	return &regclient.AnalyticsSummary{
		TotalDocuments:  142,
		TotalQuestions:  3187,
		AnsweredRate:    0.86,
		AvgConfidence:   0.81,
		AvgGroundedness: 0.88,
		TopTopics: []regclient.TopicCount{
			{Code: "aml", Count: 612},
			{Code: "virtual-assets", Count: 488},
			{Code: "kyc", Count: 402},
		},
		UpdatedAt: "2025-08-20",
	}, nil
}
