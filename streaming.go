package regclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// StreamEvent represents a single event in an answer stream.
// Each event contains either citations, a token, final metadata, or an error.
type StreamEvent struct {
	// Citations contains the evidence list for the answer (nil if token/final/error).
	// Sent before tokens so markers can resolve as they stream in; honored at
	// most once per exchange.
	Citations *CitationsEvent

	// Token contains one incremental answer fragment (nil if citations/final/error).
	Token *TokenEvent

	// Final contains the answer metadata sent when streaming completes
	// (nil until end).
	Final *FinalEvent

	// Err contains any error that occurred during streaming (nil if successful).
	// A *BackendError wraps an explicit error event from the stream; a
	// *TransportError wraps a connection-level failure.
	Err error
}

// CitationsEvent carries the ordered evidence list for the answer in
// progress. The list may be empty when retrieval found nothing.
type CitationsEvent struct {
	Citations []Citation `json:"citations"`
}

// TokenEvent carries one appended answer fragment. Fragments are appended
// in arrival order and never revised.
type TokenEvent struct {
	Text string `json:"token"`
}

// FinalEvent carries the quality metadata sent once the answer is complete.
// This is the last event of a successful exchange.
type FinalEvent struct {
	Metadata AnswerMetadata `json:"data"`
}

// eventPrefix tags the wire lines that carry answer events. Lines without
// it (blank keep-alives, comments) carry no payload.
const eventPrefix = "data: "

// errorFrame is the wire shape of an explicit error event.
type errorFrame struct {
	Content string `json:"content"`
}

// ParseFrame decodes one complete stream line into an event.
//
// Lines without the event prefix are skipped: ParseFrame returns (nil, nil)
// and the caller reads on. Lines that carry the prefix but not a decodable
// event return (nil, *FrameError); callers log those and keep reading, so a
// single corrupt frame never ends the exchange. An explicit "error" event
// decodes successfully into a StreamEvent whose Err is a *BackendError.
func ParseFrame(line string) (*StreamEvent, error) {
	if !strings.HasPrefix(line, eventPrefix) {
		return nil, nil
	}
	payload := strings.TrimPrefix(line, eventPrefix)

	if !gjson.Valid(payload) {
		return nil, &FrameError{Line: payload, Err: fmt.Errorf("invalid JSON")}
	}

	// Probe the discriminant first so the payload only gets one strict
	// unmarshal, into the right shape.
	eventType := gjson.Get(payload, "type")
	if !eventType.Exists() {
		return nil, &FrameError{Line: payload, Err: fmt.Errorf("missing event type")}
	}

	switch eventType.String() {
	case "citations":
		var ev CitationsEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, &FrameError{Line: payload, Err: err}
		}
		return &StreamEvent{Citations: &ev}, nil

	case "token":
		var ev TokenEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, &FrameError{Line: payload, Err: err}
		}
		return &StreamEvent{Token: &ev}, nil

	case "final":
		var ev FinalEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, &FrameError{Line: payload, Err: err}
		}
		return &StreamEvent{Final: &ev}, nil

	case "error":
		var frame errorFrame
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			return nil, &FrameError{Line: payload, Err: err}
		}
		return &StreamEvent{Err: &BackendError{Message: frame.Content}}, nil

	default:
		return nil, &FrameError{Line: payload, Err: fmt.Errorf("unknown event type %q", eventType.String())}
	}
}

// Terminal reports whether this event ends the exchange.
func (ev *StreamEvent) Terminal() bool {
	return ev != nil && (ev.Final != nil || ev.Err != nil)
}
