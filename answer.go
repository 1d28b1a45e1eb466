package regclient

// AnswerStatus represents the lifecycle state of one question/answer exchange.
type AnswerStatus string

// Exchange lifecycle states. Complete and Failed are absorbing: once an
// AnswerState reaches either, no further mutation occurs.
const (
	StatusIdle      AnswerStatus = "idle"      // before a question is submitted
	StatusStreaming AnswerStatus = "streaming" // transport open, events arriving
	StatusComplete  AnswerStatus = "complete"  // final metadata received
	StatusFailed    AnswerStatus = "failed"    // backend error, transport failure, or cancellation
)

// IsTerminal returns true once the exchange can no longer change.
func (s AnswerStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// String returns the string representation of the status.
func (s AnswerStatus) String() string {
	return string(s)
}

// FailureKind classifies why an exchange ended in StatusFailed.
// Empty for non-failed states.
type FailureKind string

const (
	// FailureBackend means the backend explicitly sent an error event.
	FailureBackend FailureKind = "backend"

	// FailureTransport means the connection failed before a terminal event
	// (reset, timeout, non-2xx status, or a stream that ended without one).
	FailureTransport FailureKind = "transport"

	// FailureCancelled means the caller aborted the exchange. UIs typically
	// render this differently from a real error.
	FailureCancelled FailureKind = "cancelled"
)

// Citation is one evidence record backing an answer. Citations are created
// by the backend and immutable once received; the client only derives a
// 1-based display index from arrival order (first received = index 1,
// never re-sorted).
//
// Wire mappings:
// - streaming: the "citations" event carries the full ordered list
// - non-streaming: AskResponse.Citations carries the same shape
type Citation struct {
	// ChunkID identifies the retrieved chunk this citation points at.
	ChunkID string `json:"chunk_id"`

	// DocumentID identifies the source regulatory document.
	DocumentID string `json:"document_id"`

	// DocumentTitle is the human-readable document title.
	DocumentTitle string `json:"document_title"`

	// PublishedAt is the document publication date (ISO 8601, as sent).
	PublishedAt string `json:"published_at"`

	// Snippet is the excerpt of the chunk shown as evidence.
	Snippet string `json:"snippet"`

	// URL links to the source document.
	URL string `json:"url"`
}

// DisplayCitation pairs a citation with its 1-based display index.
type DisplayCitation struct {
	Index    int
	Citation Citation
}

// DisplayCitations derives the arrival-ordered, 1-based display list the UI
// renders next to an answer.
func DisplayCitations(citations []Citation) []DisplayCitation {
	out := make([]DisplayCitation, len(citations))
	for i, c := range citations {
		out[i] = DisplayCitation{Index: i + 1, Citation: c}
	}
	return out
}

// AnswerMetadata carries the quality signals attached to a finished answer.
// It is sent whole in the streaming "final" event and embedded in the
// non-streaming response. Optional fields are pointers to distinguish
// "not sent" from a zero value.
type AnswerMetadata struct {
	// Summary is a condensed restatement of the answer.
	Summary *string `json:"summary,omitempty"`

	// IndustryImpact describes expected impact on the asker's industry.
	IndustryImpact *string `json:"industry_impact,omitempty"`

	// Confidence is the backend's confidence in the answer (0.0-1.0).
	Confidence float64 `json:"confidence"`

	// GroundednessScore measures how well the answer is supported by the
	// retrieved evidence (0.0-1.0).
	GroundednessScore float64 `json:"groundedness_score"`

	// CitationCoverage is the fraction of the answer's claims backed by at
	// least one citation (0.0-1.0).
	CitationCoverage float64 `json:"citation_coverage"`

	// UncertaintyNote is a caveat the backend wants shown with the answer.
	UncertaintyNote *string `json:"uncertainty_note,omitempty"`

	// Answerable reports whether the backend considers the question
	// answerable from the corpus. May be absent on older backends; see
	// ResolveAnswerable for how absence is interpreted.
	Answerable *bool `json:"answerable,omitempty"`
}

// DefaultConfidenceThreshold is the confidence below which an answer is
// flagged as likely unsupported. Dashboards may override it in config.
const DefaultConfidenceThreshold = 0.6

// HallucinationRisk reports whether the answer should carry the
// low-confidence warning badge. Threshold <= 0 falls back to
// DefaultConfidenceThreshold.
func (m *AnswerMetadata) HallucinationRisk(threshold float64) bool {
	if m == nil {
		return false
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return m.Confidence < threshold
}

// ResolveAnswerable materializes the Answerable flag. When the backend
// omitted it, answerable defaults to true only when citations are present:
// a cited answer is assumed grounded, an uncited one is not.
func (m *AnswerMetadata) ResolveAnswerable(citations []Citation) bool {
	if m != nil && m.Answerable != nil {
		return *m.Answerable
	}
	return len(citations) > 0
}

// AnswerState is the evolving result of one exchange. It is owned and
// mutated exclusively by the Session that produced it; everything handed to
// callers is a value snapshot, safe to keep and read from any goroutine.
//
// Lifecycle: created when a question is submitted, mutated in place as
// stream events arrive, frozen once Status is terminal, replaced entirely
// when a new question starts.
type AnswerState struct {
	// Text is the answer accumulated so far. Append-only: token events only
	// ever extend it.
	Text string

	// Citations is the arrival-ordered evidence list. Set at most once per
	// exchange; later citations events are ignored so already-rendered
	// marker numbering never shifts.
	Citations []Citation

	// Metadata is nil until the final event arrives.
	Metadata *AnswerMetadata

	// Status is the exchange lifecycle state.
	Status AnswerStatus

	// ErrorMessage is set when Status is StatusFailed.
	ErrorMessage string

	// Failure classifies the failure when Status is StatusFailed.
	Failure FailureKind
}

// NewAnswerState returns the empty pre-submit state the UI renders before
// any question has been asked.
func NewAnswerState() AnswerState {
	return AnswerState{Status: StatusIdle}
}

// Cancelled reports whether this state is a failure caused by cancellation
// rather than a backend or transport problem.
func (s AnswerState) Cancelled() bool {
	return s.Status == StatusFailed && s.Failure == FailureCancelled
}
