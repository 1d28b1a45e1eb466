package regclient

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Advisory thresholds. The backend enforces its own limits; these exist so
// the UI can warn before a request is sent.
const (
	questionMinRunes = 8
	questionMaxRunes = 2000
	topKAdvisoryMax  = 20
	minScoreAdvisory = 0.9
)

// QuestionValidationRule checks question length warnings
type QuestionValidationRule struct{}

func (r *QuestionValidationRule) Name() string {
	return "Question Validation"
}

func (r *QuestionValidationRule) Check(backend string, req *AskRequest) []ValidationWarning {
	var warnings []ValidationWarning

	question := strings.TrimSpace(req.Question)
	length := utf8.RuneCountInString(question)

	if length > 0 && length < questionMinRunes {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeQuestionTooShort,
			Category: "question",
			Field:    "question",
			Value:    length,
			Message:  fmt.Sprintf("Question is only %d characters; retrieval works better with a full sentence", length),
			Severity: SeverityInfo,
		})
	}

	if length > questionMaxRunes {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeQuestionTooLong,
			Category: "question",
			Field:    "question",
			Value:    length,
			Message:  fmt.Sprintf("Question is %d characters; the backend may truncate past %d", length, questionMaxRunes),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// LocaleValidationRule checks locale hint warnings
type LocaleValidationRule struct {
	registry *LocaleRegistry
}

func (r *LocaleValidationRule) Name() string {
	return "Locale Validation"
}

func (r *LocaleValidationRule) Check(backend string, req *AskRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil || req.Params.Locale == nil {
		return warnings
	}

	locale := *req.Params.Locale
	if !r.registry.SupportsLocale(locale) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeLocaleUnknown,
			Category: "locale",
			Field:    "locale",
			Value:    locale,
			Message:  fmt.Sprintf("Locale %s has no registered marker vocabulary; citation markers fall back to the bare bracket pattern", locale),
			Severity: SeverityInfo,
		})
	}

	return warnings
}

// FilterCodeValidationRule checks filter codes against the catalog
type FilterCodeValidationRule struct {
	catalog *FilterCatalog
}

func (r *FilterCodeValidationRule) Name() string {
	return "Filter Code Validation"
}

func (r *FilterCodeValidationRule) Check(backend string, req *AskRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Filters.Empty() {
		return warnings
	}

	for _, code := range req.Filters.Industries {
		if !r.catalog.IsKnown(FilterIndustry, code) {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeIndustryUnknown,
				Category: "filter",
				Field:    "filters.industries",
				Value:    code,
				Message:  fmt.Sprintf("Industry code %s is not in the catalog (catalog may be outdated)", code),
				Severity: SeverityWarning,
			})
		}
	}

	for _, code := range req.Filters.DocTypes {
		if !r.catalog.IsKnown(FilterDocType, code) {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeDocTypeUnknown,
				Category: "filter",
				Field:    "filters.doc_types",
				Value:    code,
				Message:  fmt.Sprintf("Document type code %s is not in the catalog (catalog may be outdated)", code),
				Severity: SeverityWarning,
			})
		}
	}

	for _, code := range req.Filters.Topics {
		if !r.catalog.IsKnown(FilterTopic, code) {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTopicUnknown,
				Category: "filter",
				Field:    "filters.topics",
				Value:    code,
				Message:  fmt.Sprintf("Topic code %s is not in the catalog (catalog may be outdated)", code),
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}

// DateRangeValidationRule checks publication date bound warnings
type DateRangeValidationRule struct{}

func (r *DateRangeValidationRule) Name() string {
	return "Date Range Validation"
}

func (r *DateRangeValidationRule) Check(backend string, req *AskRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Filters == nil || req.Filters.DateFrom == "" {
		return warnings
	}

	from, err := time.Parse(filterDateLayout, req.Filters.DateFrom)
	if err != nil {
		// Hard validation reports malformed dates
		return warnings
	}

	if from.After(time.Now()) {
		warnings = append(warnings, ValidationWarning{
			Code:     WarningCodeDateFromFuture,
			Category: "filter",
			Field:    "filters.date_from",
			Value:    req.Filters.DateFrom,
			Message:  fmt.Sprintf("date_from %s is in the future; retrieval will likely return nothing", req.Filters.DateFrom),
			Severity: SeverityWarning,
		})
	}

	return warnings
}

// ParameterValidationRule checks tuning parameter warnings
type ParameterValidationRule struct{}

func (r *ParameterValidationRule) Name() string {
	return "Parameter Validation"
}

func (r *ParameterValidationRule) Check(backend string, req *AskRequest) []ValidationWarning {
	var warnings []ValidationWarning

	if req.Params == nil {
		return warnings
	}

	if req.Params.TopK != nil {
		topK := *req.Params.TopK
		if topK > topKAdvisoryMax {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeTopKHigh,
				Category: "parameter",
				Field:    "top_k",
				Value:    topK,
				Message:  fmt.Sprintf("top_k %d above %d adds latency with little retrieval gain", topK, topKAdvisoryMax),
				Severity: SeverityInfo,
			})
		}
	}

	if req.Params.MinScore != nil {
		minScore := *req.Params.MinScore
		if minScore > minScoreAdvisory {
			warnings = append(warnings, ValidationWarning{
				Code:     WarningCodeMinScoreHigh,
				Category: "parameter",
				Field:    "min_score",
				Value:    minScore,
				Message:  fmt.Sprintf("min_score %.2f may drop all retrieved chunks and make questions unanswerable", minScore),
				Severity: SeverityWarning,
			})
		}
	}

	return warnings
}
