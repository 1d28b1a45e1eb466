package regapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	regclient "github.com/reglens/reglens-go"
)

// askPayload is the wire shape of answer requests. Tuning params flatten
// into top-level fields next to the question.
type askPayload struct {
	Question     string             `json:"question"`
	Filters      *regclient.Filters `json:"filters,omitempty"`
	TopK         *int               `json:"top_k,omitempty"`
	MinScore     *float64           `json:"min_score,omitempty"`
	MaxCitations *int               `json:"max_citations,omitempty"`
	Locale       *string            `json:"locale,omitempty"`
	Stream       bool               `json:"stream,omitempty"`
}

// buildAskPayload flattens an AskRequest into the wire shape.
func buildAskPayload(req *regclient.AskRequest, stream bool) *askPayload {
	payload := &askPayload{
		Question: req.Question,
		Stream:   stream,
	}
	if !req.Filters.Empty() {
		payload.Filters = req.Filters
	}
	if req.Params != nil {
		payload.TopK = req.Params.TopK
		payload.MinScore = req.Params.MinScore
		payload.MaxCitations = req.Params.MaxCitations
		payload.Locale = req.Params.Locale
	}
	return payload
}

// handleErrorResponse parses non-2xx responses into library errors.
func (c *Client) handleErrorResponse(resp *http.Response, requestID string) error {
	body, _ := io.ReadAll(resp.Body)

	// Try to parse structured error
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"error"`
	}

	message := ""
	if err := json.Unmarshal(body, &errResp); err == nil {
		message = errResp.Error.Message
	}
	if message == "" {
		// Fallback to plain text error
		message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	// Map HTTP status codes to library errors
	switch resp.StatusCode {
	case 401, 403:
		return regclient.ErrInvalidAPIKey
	case 400, 422:
		field := errResp.Error.Field
		if field == "" {
			field = "request"
		}
		return &regclient.ValidationError{
			Field:  field,
			Value:  requestID,
			Reason: message,
			Err:    regclient.ErrInvalidRequest,
		}
	case 429:
		return &regclient.TransportError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Message:    message,
			Err:        regclient.ErrRateLimited,
		}
	default:
		return &regclient.TransportError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Message:    message,
			Err:        regclient.ErrBackendUnavailable,
		}
	}
}
