package regclient

// AskResponse contains a backend's complete, non-streamed answer. It is the
// single-JSON counterpart of a finished stream: the fields mirror what a
// terminal AnswerState holds, so correlation and display treat streamed and
// non-streamed answers identically (see convert.go).
type AskResponse struct {
	// Answer is the full answer text, including in-text citation markers.
	Answer string `json:"answer"`

	// Summary is a condensed restatement of the answer
	Summary *string `json:"summary,omitempty"`

	// IndustryImpact describes expected impact on the asker's industry
	IndustryImpact *string `json:"industry_impact,omitempty"`

	// Citations is the arrival-ordered evidence list (display index = position + 1)
	Citations []Citation `json:"citations"`

	// Confidence is the backend's confidence in the answer (0.0-1.0)
	Confidence float64 `json:"confidence"`

	// GroundednessScore measures evidence support for the answer (0.0-1.0)
	GroundednessScore float64 `json:"groundedness_score"`

	// CitationCoverage is the fraction of claims backed by a citation (0.0-1.0)
	CitationCoverage float64 `json:"citation_coverage"`

	// UncertaintyNote is a caveat to show with the answer, when present
	UncertaintyNote *string `json:"uncertainty_note,omitempty"`

	// Answerable reports whether the question was answerable from the
	// corpus; may be absent on older backends
	Answerable *bool `json:"answerable,omitempty"`
}
