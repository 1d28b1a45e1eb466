package regclient

import "testing"

func TestAnswerStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   AnswerStatus
		expected bool
	}{
		{StatusIdle, false},
		{StatusStreaming, false},
		{StatusComplete, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDisplayCitations(t *testing.T) {
	citations := []Citation{
		{ChunkID: "chunk-1", DocumentTitle: "First"},
		{ChunkID: "chunk-2", DocumentTitle: "Second"},
		{ChunkID: "chunk-3", DocumentTitle: "Third"},
	}

	display := DisplayCitations(citations)
	if len(display) != 3 {
		t.Fatalf("expected 3 display citations, got %d", len(display))
	}
	for i, dc := range display {
		if dc.Index != i+1 {
			t.Errorf("display index = %d, want %d", dc.Index, i+1)
		}
		if dc.Citation.ChunkID != citations[i].ChunkID {
			t.Errorf("citation order changed at %d", i)
		}
	}
}

func TestDisplayCitations_Empty(t *testing.T) {
	if display := DisplayCitations(nil); len(display) != 0 {
		t.Errorf("expected empty display list, got %v", display)
	}
}

func TestAnswerMetadata_HallucinationRisk(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		threshold  float64
		expected   bool
	}{
		{"well above default threshold", 0.9, 0, false},
		{"below default threshold", 0.45, 0, true},
		{"exactly at default threshold", 0.6, 0, false},
		{"just under default threshold", 0.59, 0, true},
		{"custom threshold flags more", 0.7, 0.8, true},
		{"custom threshold flags less", 0.5, 0.4, false},
		{"negative threshold falls back to default", 0.45, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := &AnswerMetadata{Confidence: tt.confidence}
			if got := meta.HallucinationRisk(tt.threshold); got != tt.expected {
				t.Errorf("HallucinationRisk(%v) = %v, want %v", tt.threshold, got, tt.expected)
			}
		})
	}
}

func TestAnswerMetadata_HallucinationRisk_NilMetadata(t *testing.T) {
	var meta *AnswerMetadata
	if meta.HallucinationRisk(0) {
		t.Error("nil metadata should never flag risk")
	}
}

func TestAnswerMetadata_ResolveAnswerable(t *testing.T) {
	citations := []Citation{{ChunkID: "chunk-1"}}

	tests := []struct {
		name      string
		meta      *AnswerMetadata
		citations []Citation
		expected  bool
	}{
		{"explicit true", &AnswerMetadata{Answerable: boolPtr(true)}, nil, true},
		{"explicit false wins over citations", &AnswerMetadata{Answerable: boolPtr(false)}, citations, false},
		{"absent with citations", &AnswerMetadata{}, citations, true},
		{"absent without citations", &AnswerMetadata{}, nil, false},
		{"nil metadata with citations", nil, citations, true},
		{"nil metadata without citations", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.ResolveAnswerable(tt.citations); got != tt.expected {
				t.Errorf("ResolveAnswerable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewAnswerState(t *testing.T) {
	state := NewAnswerState()
	if state.Status != StatusIdle {
		t.Errorf("status = %s, want %s", state.Status, StatusIdle)
	}
	if state.Text != "" || state.Citations != nil || state.Metadata != nil {
		t.Error("pre-submit state should be empty")
	}
}

func TestAnswerState_Cancelled(t *testing.T) {
	tests := []struct {
		name     string
		state    AnswerState
		expected bool
	}{
		{"cancelled failure", AnswerState{Status: StatusFailed, Failure: FailureCancelled}, true},
		{"backend failure", AnswerState{Status: StatusFailed, Failure: FailureBackend}, false},
		{"transport failure", AnswerState{Status: StatusFailed, Failure: FailureTransport}, false},
		{"complete", AnswerState{Status: StatusComplete}, false},
		{"streaming", AnswerState{Status: StatusStreaming}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Cancelled(); got != tt.expected {
				t.Errorf("Cancelled() = %v, want %v", got, tt.expected)
			}
		})
	}
}
