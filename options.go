package regclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AskParams represents the tuning parameters a request may carry.
// All fields are optional pointers to distinguish "not set" from "set to zero value".
type AskParams struct {
	// TopK sets how many chunks retrieval considers (1-100)
	TopK *int `json:"top_k,omitempty"`

	// MinScore drops retrieved chunks scoring below this floor (0.0-1.0)
	MinScore *float64 `json:"min_score,omitempty"`

	// MaxCitations caps how many citations the backend attaches
	MaxCitations *int `json:"max_citations,omitempty"`

	// Locale hints the answer language (e.g., "en", "ko").
	// Unknown locales are answered anyway; see the locale registry.
	Locale *string `json:"locale,omitempty"`
}

// ValidateAskParams validates request tuning parameters
func ValidateAskParams(params *AskParams) error {
	if params == nil {
		return nil // nil params is valid
	}

	// Validate ranges
	if params.TopK != nil {
		if *params.TopK < 1 || *params.TopK > 100 {
			return fmt.Errorf("top_k must be between 1 and 100, got %d", *params.TopK)
		}
	}

	if params.MinScore != nil {
		if *params.MinScore < 0.0 || *params.MinScore > 1.0 {
			return fmt.Errorf("min_score must be between 0.0 and 1.0, got %f", *params.MinScore)
		}
	}

	if params.MaxCitations != nil {
		if *params.MaxCitations < 1 {
			return fmt.Errorf("max_citations must be positive, got %d", *params.MaxCitations)
		}
	}

	if params.Locale != nil {
		if strings.TrimSpace(*params.Locale) == "" {
			return fmt.Errorf("locale must not be blank when set")
		}
	}

	return nil
}

// ValidateAskRequest validates the request itself before any network call.
// Param ranges are checked too, so backends can call this once.
func ValidateAskRequest(req *AskRequest) error {
	if req == nil {
		return &ValidationError{
			Field:  "request",
			Value:  nil,
			Reason: "request must not be nil",
			Err:    ErrInvalidRequest,
		}
	}

	if strings.TrimSpace(req.Question) == "" {
		return &ValidationError{
			Field:  "question",
			Value:  req.Question,
			Reason: "question must contain non-whitespace text",
			Err:    ErrEmptyQuestion,
		}
	}

	if err := ValidateAskParams(req.Params); err != nil {
		return &ValidationError{
			Field:  "params",
			Value:  req.Params,
			Reason: err.Error(),
			Err:    ErrInvalidRequest,
		}
	}

	if err := ValidateFilters(req.Filters); err != nil {
		return err
	}

	return nil
}

// GetAskParamStruct unmarshals a loosely-typed map (config files, saved
// presets) into a typed AskParams struct
func GetAskParamStruct(params map[string]interface{}) (*AskParams, error) {
	if params == nil {
		return &AskParams{}, nil
	}

	jsonBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var ap AskParams
	if err := json.Unmarshal(jsonBytes, &ap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	return &ap, nil
}

// GetTopK returns top_k with default fallback
func (ap *AskParams) GetTopK(defaultValue int) int {
	if ap.TopK != nil {
		return *ap.TopK
	}
	return defaultValue
}

// GetMinScore returns min_score with default fallback
func (ap *AskParams) GetMinScore(defaultValue float64) float64 {
	if ap.MinScore != nil {
		return *ap.MinScore
	}
	return defaultValue
}

// GetMaxCitations returns max_citations with default fallback
func (ap *AskParams) GetMaxCitations(defaultValue int) int {
	if ap.MaxCitations != nil {
		return *ap.MaxCitations
	}
	return defaultValue
}

// GetLocale returns the locale hint with default fallback
func (ap *AskParams) GetLocale(defaultValue string) string {
	if ap.Locale != nil {
		return strings.ToLower(*ap.Locale)
	}
	return defaultValue
}
