package regclient

import (
	"errors"
	"testing"
)

func TestParseFrame_SkipsNonEventLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"keep-alive comment", ": keep-alive"},
		{"event name line", "event: token"},
		{"prefix without space", "data:{\"type\":\"token\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseFrame(tt.line)
			if err != nil {
				t.Errorf("ParseFrame(%q) error = %v, want nil", tt.line, err)
			}
			if event != nil {
				t.Errorf("ParseFrame(%q) = %+v, want nil", tt.line, event)
			}
		})
	}
}

func TestParseFrame_Citations(t *testing.T) {
	line := `data: {"type":"citations","citations":[{"chunk_id":"chunk-1","document_id":"doc-1","document_title":"Banking Act","published_at":"2025-01-15","snippet":"...","url":"https://example.gov/1"},{"chunk_id":"chunk-2","document_id":"doc-2","document_title":"Decree","published_at":"2025-02-01","snippet":"...","url":"https://example.gov/2"}]}`

	event, err := ParseFrame(line)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if event == nil || event.Citations == nil {
		t.Fatal("expected a citations event")
	}
	if len(event.Citations.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(event.Citations.Citations))
	}
	if event.Citations.Citations[0].DocumentTitle != "Banking Act" {
		t.Errorf("citation title = %q, want %q", event.Citations.Citations[0].DocumentTitle, "Banking Act")
	}
	if event.Terminal() {
		t.Error("citations event should not be terminal")
	}
}

func TestParseFrame_Token(t *testing.T) {
	event, err := ParseFrame(`data: {"type":"token","token":"강화된 고객확인 "}`)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if event == nil || event.Token == nil {
		t.Fatal("expected a token event")
	}
	if event.Token.Text != "강화된 고객확인 " {
		t.Errorf("token text = %q", event.Token.Text)
	}
	if event.Terminal() {
		t.Error("token event should not be terminal")
	}
}

func TestParseFrame_Final(t *testing.T) {
	line := `data: {"type":"final","data":{"confidence":0.82,"groundedness_score":0.9,"citation_coverage":0.75,"answerable":true,"summary":"short version"}}`

	event, err := ParseFrame(line)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if event == nil || event.Final == nil {
		t.Fatal("expected a final event")
	}

	meta := event.Final.Metadata
	if meta.Confidence != 0.82 {
		t.Errorf("confidence = %f, want 0.82", meta.Confidence)
	}
	if meta.GroundednessScore != 0.9 {
		t.Errorf("groundedness = %f, want 0.9", meta.GroundednessScore)
	}
	if meta.Answerable == nil || !*meta.Answerable {
		t.Error("expected answerable=true")
	}
	if meta.Summary == nil || *meta.Summary != "short version" {
		t.Error("summary not decoded")
	}
	if !event.Terminal() {
		t.Error("final event should be terminal")
	}
}

func TestParseFrame_FinalOmitsOptionalFields(t *testing.T) {
	event, err := ParseFrame(`data: {"type":"final","data":{"confidence":0.5,"groundedness_score":0.5,"citation_coverage":0.5}}`)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	meta := event.Final.Metadata
	if meta.Answerable != nil {
		t.Error("expected absent answerable to stay nil")
	}
	if meta.Summary != nil || meta.UncertaintyNote != nil {
		t.Error("expected absent optional strings to stay nil")
	}
}

func TestParseFrame_ErrorEvent(t *testing.T) {
	event, err := ParseFrame(`data: {"type":"error","content":"retrieval index unavailable"}`)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if event == nil || event.Err == nil {
		t.Fatal("expected an event carrying an error")
	}

	var backendErr *BackendError
	if !errors.As(event.Err, &backendErr) {
		t.Fatalf("expected BackendError, got %T", event.Err)
	}
	if backendErr.Message != "retrieval index unavailable" {
		t.Errorf("message = %q", backendErr.Message)
	}
	if !event.Terminal() {
		t.Error("error event should be terminal")
	}
}

func TestParseFrame_MalformedFrames(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"invalid JSON", `data: {"type":"token",`},
		{"not JSON at all", `data: [DONE`},
		{"missing type", `data: {"token":"hello"}`},
		{"unknown type", `data: {"type":"usage","tokens":12}`},
		{"wrong shape for citations", `data: {"type":"citations","citations":"not-a-list"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseFrame(tt.line)
			if event != nil {
				t.Errorf("expected nil event for malformed frame, got %+v", event)
			}
			if err == nil {
				t.Fatal("expected FrameError")
			}
			if !IsFrameError(err) {
				t.Errorf("expected frame error classification, got %v", err)
			}

			var frameErr *FrameError
			if !errors.As(err, &frameErr) {
				t.Fatalf("expected *FrameError, got %T", err)
			}
			if frameErr.Line == "" {
				t.Error("FrameError should carry the offending payload")
			}
		})
	}
}

func TestStreamEvent_Terminal(t *testing.T) {
	tests := []struct {
		name     string
		event    *StreamEvent
		expected bool
	}{
		{"nil event", nil, false},
		{"citations", &StreamEvent{Citations: &CitationsEvent{}}, false},
		{"token", &StreamEvent{Token: &TokenEvent{Text: "x"}}, false},
		{"final", &StreamEvent{Final: &FinalEvent{}}, true},
		{"error", &StreamEvent{Err: &BackendError{Message: "boom"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Terminal(); got != tt.expected {
				t.Errorf("Terminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}
