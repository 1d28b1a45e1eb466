package regclient

// Document is one corpus entry: a law, decree, guideline, or other
// regulator publication that retrieval draws evidence from.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	DocType     string   `json:"doc_type"`
	Regulator   string   `json:"regulator"`
	Industries  []string `json:"industries,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	PublishedAt string   `json:"published_at"`
	EffectiveAt string   `json:"effective_at,omitempty"`
	URL         string   `json:"url"`
	Summary     string   `json:"summary,omitempty"`
}

// Topic describes one topic code with its corpus footprint.
type Topic struct {
	Code          string `json:"code"`
	Label         string `json:"label"`
	Description   string `json:"description,omitempty"`
	DocumentCount int    `json:"document_count"`
}

// Alert severity levels, in increasing urgency.
const (
	AlertSeverityInfo           = "info"
	AlertSeverityNotice         = "notice"
	AlertSeverityActionRequired = "action-required"
)

// Alert is a regulatory change notification tied to a corpus document.
type Alert struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	DocumentID  string `json:"document_id,omitempty"`
	PublishedAt string `json:"published_at"`
	Deadline    string `json:"deadline,omitempty"`
	Body        string `json:"body"`
}

// Checklist is a compliance checklist derived from the corpus for one
// industry.
type Checklist struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Industry  string          `json:"industry"`
	Items     []ChecklistItem `json:"items"`
	UpdatedAt string          `json:"updated_at"`
}

// ChecklistItem is one obligation on a checklist.
type ChecklistItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Required   bool   `json:"required"`
	DocumentID string `json:"document_id,omitempty"`
}

// AnalyticsSummary aggregates corpus and answer-quality statistics for the
// dashboard's analytics panel.
type AnalyticsSummary struct {
	TotalDocuments  int          `json:"total_documents"`
	TotalQuestions  int          `json:"total_questions"`
	AnsweredRate    float64      `json:"answered_rate"`
	AvgConfidence   float64      `json:"avg_confidence"`
	AvgGroundedness float64      `json:"avg_groundedness"`
	TopTopics       []TopicCount `json:"top_topics,omitempty"`
	UpdatedAt       string       `json:"updated_at"`
}

// TopicCount pairs a topic code with how often it was asked about.
type TopicCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}
