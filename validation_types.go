package regclient

// Severity indicates how serious a validation warning is
type Severity string

const (
	SeverityInfo    Severity = "info"    // Informational (might be expected)
	SeverityWarning Severity = "warning" // Potentially problematic
	SeverityError   Severity = "error"   // Likely to cause a poor or empty answer
)

// WarningCode is a machine-readable identifier for validation warnings
type WarningCode string

const (
	// Question warnings
	WarningCodeQuestionTooShort WarningCode = "QUESTION_TOO_SHORT"
	WarningCodeQuestionTooLong  WarningCode = "QUESTION_TOO_LONG"

	// Locale warnings
	WarningCodeLocaleUnknown WarningCode = "LOCALE_UNKNOWN"

	// Filter warnings
	WarningCodeIndustryUnknown WarningCode = "FILTER_INDUSTRY_UNKNOWN"
	WarningCodeDocTypeUnknown  WarningCode = "FILTER_DOC_TYPE_UNKNOWN"
	WarningCodeTopicUnknown    WarningCode = "FILTER_TOPIC_UNKNOWN"
	WarningCodeDateFromFuture  WarningCode = "FILTER_DATE_FROM_FUTURE"

	// Parameter warnings
	WarningCodeTopKHigh     WarningCode = "TOP_K_HIGH"
	WarningCodeMinScoreHigh WarningCode = "MIN_SCORE_HIGH"
)

// ValidationWarning represents a potential issue with a request.
// These are informational - the library doesn't block requests based on warnings.
// The backend is the source of truth for what it can answer.
type ValidationWarning struct {
	Code     WarningCode // Machine-readable code
	Category string      // "question", "locale", "filter", "parameter"
	Field    string      // Field that might cause issues
	Value    any         // The potentially problematic value
	Message  string      // Human-readable warning
	Severity Severity    // How serious this warning is
}

// ValidationRule interface allows adding custom validation logic
type ValidationRule interface {
	// Name returns a human-readable name for this rule
	Name() string

	// Check inspects a request and returns warnings
	Check(backend string, req *AskRequest) []ValidationWarning
}
