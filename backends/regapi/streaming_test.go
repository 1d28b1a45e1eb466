package regapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	regclient "github.com/reglens/reglens-go"
)

// streamHandler writes the given body to the client in fixed-size chunks
// with a flush after each, so frames arrive fragmented at arbitrary byte
// boundaries the way a real proxy chain delivers them.
func streamHandler(t *testing.T, body string, chunkSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/answers/stream" {
			t.Errorf("path = %s, want /answers/stream", r.URL.Path)
		}
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", r.Header.Get("Accept"))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}

		data := []byte(body)
		for start := 0; start < len(data); start += chunkSize {
			end := start + chunkSize
			if end > len(data) {
				end = len(data)
			}
			if _, err := w.Write(data[start:end]); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// collectEvents drains the stream into slices for assertions.
func collectEvents(eventChan <-chan regclient.StreamEvent) (citations []regclient.CitationsEvent, text string, final *regclient.FinalEvent, errs []error) {
	var sb strings.Builder
	for event := range eventChan {
		switch {
		case event.Err != nil:
			errs = append(errs, event.Err)
		case event.Citations != nil:
			citations = append(citations, *event.Citations)
		case event.Token != nil:
			sb.WriteString(event.Token.Text)
		case event.Final != nil:
			f := *event.Final
			final = &f
		}
	}
	return citations, sb.String(), final, errs
}

const happyStream = `data: {"type":"citations","citations":[{"chunk_id":"chunk-1","document_id":"doc-efta","document_title":"전자금융거래법 개정","published_at":"2025-03-14","snippet":"...","url":"https://law.example.gov/efta"}]}

data: {"type":"token","token":"정책 변경 "}

: keep-alive

data: {"type":"token","token":"사항은 [1]"}

data: {"type":"token","token":" 입니다."}

data: {"type":"final","data":{"confidence":0.82,"groundedness_score":0.9,"citation_coverage":1.0,"answerable":true}}
`

func TestClient_AskStream(t *testing.T) {
	server := httptest.NewServer(streamHandler(t, happyStream, 4096))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "정책이 어떻게 바뀌었나요?"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	citations, text, final, errs := collectEvents(eventChan)

	if len(errs) != 0 {
		t.Fatalf("unexpected error events: %v", errs)
	}
	if len(citations) != 1 {
		t.Fatalf("expected 1 citations event, got %d", len(citations))
	}
	if citations[0].Citations[0].DocumentTitle != "전자금융거래법 개정" {
		t.Errorf("citation title = %q", citations[0].Citations[0].DocumentTitle)
	}
	if text != "정책 변경 사항은 [1] 입니다." {
		t.Errorf("text = %q", text)
	}
	if final == nil {
		t.Fatal("expected a final event")
	}
	if final.Metadata.Confidence != 0.82 {
		t.Errorf("confidence = %f, want 0.82", final.Metadata.Confidence)
	}
	if final.Metadata.Answerable == nil || !*final.Metadata.Answerable {
		t.Error("expected answerable=true")
	}
}

func TestClient_AskStream_FragmentedFrames(t *testing.T) {
	// Three-byte chunks split every frame mid-JSON and split the Korean
	// runes mid-sequence; the assembled events must be identical.
	server := httptest.NewServer(streamHandler(t, happyStream, 3))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "정책이 어떻게 바뀌었나요?"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	citations, text, final, errs := collectEvents(eventChan)

	if len(errs) != 0 {
		t.Fatalf("unexpected error events: %v", errs)
	}
	if len(citations) != 1 {
		t.Errorf("expected 1 citations event, got %d", len(citations))
	}
	if text != "정책 변경 사항은 [1] 입니다." {
		t.Errorf("text = %q", text)
	}
	if final == nil {
		t.Error("expected a final event")
	}
}

func TestClient_AskStream_SkipsMalformedFrames(t *testing.T) {
	body := "data: {\"type\":\"token\",\"token\":\"first \"}\n" +
		"data: {\"type\":\"token\",\n" + // truncated JSON
		"data: {\"nothing\":\"here\"}\n" + // missing type
		"data: {\"type\":\"progress\",\"pct\":40}\n" + // unknown type
		"data: {\"type\":\"token\",\"token\":\"second\"}\n" +
		"data: {\"type\":\"final\",\"data\":{\"confidence\":0.7,\"groundedness_score\":0.7,\"citation_coverage\":0.7}}\n"

	server := httptest.NewServer(streamHandler(t, body, 4096))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "valid question"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	_, text, final, errs := collectEvents(eventChan)

	if len(errs) != 0 {
		t.Fatalf("malformed frames must be skipped, not surfaced: %v", errs)
	}
	if text != "first second" {
		t.Errorf("text = %q, want %q", text, "first second")
	}
	if final == nil {
		t.Error("expected a final event after skipping bad frames")
	}
}

func TestClient_AskStream_ErrorEvent(t *testing.T) {
	body := "data: {\"type\":\"token\",\"token\":\"partial\"}\n" +
		"data: {\"type\":\"error\",\"content\":\"retrieval index unavailable\"}\n" +
		"data: {\"type\":\"token\",\"token\":\"never sent\"}\n"

	server := httptest.NewServer(streamHandler(t, body, 4096))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "valid question"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	_, text, final, errs := collectEvents(eventChan)

	if len(errs) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(errs))
	}
	var backendErr *regclient.BackendError
	if !errors.As(errs[0], &backendErr) {
		t.Fatalf("expected BackendError, got %T", errs[0])
	}
	if backendErr.Message != "retrieval index unavailable" {
		t.Errorf("message = %q", backendErr.Message)
	}
	if final != nil {
		t.Error("no final event should follow an error event")
	}
	// Reading stops at the terminal event.
	if text != "partial" {
		t.Errorf("text = %q, want %q", text, "partial")
	}
}

func TestClient_AskStream_EOFWithoutTerminal(t *testing.T) {
	body := "data: {\"type\":\"token\",\"token\":\"cut \"}\n" +
		"data: {\"type\":\"token\",\"token\":\"off\"}\n"

	server := httptest.NewServer(streamHandler(t, body, 4096))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "valid question"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	_, text, final, errs := collectEvents(eventChan)

	// The channel just closes; classifying the truncation is the session's
	// job, not the transport's.
	if len(errs) != 0 {
		t.Errorf("expected no error events, got %v", errs)
	}
	if final != nil {
		t.Error("expected no final event")
	}
	if text != "cut off" {
		t.Errorf("text = %q, want %q", text, "cut off")
	}
}

func TestClient_AskStream_HTTPErrorBeforeStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	eventChan, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: "valid question"})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if eventChan != nil {
		t.Error("expected nil channel on upfront failure")
	}
	if !regclient.IsAuthError(err) {
		t.Errorf("expected auth classification, got %v", err)
	}
}

func TestClient_AskStream_ValidationBeforeNetwork(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.AskStream(context.Background(), &regclient.AskRequest{Question: ""})
	if !errors.Is(err, regclient.ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}
	if hit {
		t.Error("invalid request must not reach the network")
	}
}

func TestClient_AskStream_Cancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		w.Write([]byte("data: {\"type\":\"token\",\"token\":\"first\"}\n"))
		flusher.Flush()

		// Hold the stream open until the client disconnects.
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventChan, err := client.AskStream(ctx, &regclient.AskRequest{Question: "valid question"})
	if err != nil {
		t.Fatalf("AskStream failed: %v", err)
	}

	sawToken := false
	for event := range eventChan {
		if event.Token != nil && !sawToken {
			sawToken = true
			cancel()
		}
		if event.Final != nil {
			t.Error("expected no final event after cancellation")
		}
	}

	if !sawToken {
		t.Error("expected the first token before cancellation")
	}
}

func TestBuildAskPayload(t *testing.T) {
	topK := 12
	minScore := 0.3
	locale := "en"

	req := &regclient.AskRequest{
		Question: "what changed?",
		Filters:  &regclient.Filters{Topics: []string{"aml"}},
		Params:   &regclient.AskParams{TopK: &topK, MinScore: &minScore, Locale: &locale},
	}

	payload := buildAskPayload(req, true)

	if payload.Question != "what changed?" {
		t.Errorf("question = %q", payload.Question)
	}
	if !payload.Stream {
		t.Error("expected stream=true")
	}
	if payload.Filters == nil || len(payload.Filters.Topics) != 1 {
		t.Errorf("filters = %+v", payload.Filters)
	}
	if payload.TopK == nil || *payload.TopK != 12 {
		t.Errorf("top_k = %v", payload.TopK)
	}
	if payload.MinScore == nil || *payload.MinScore != 0.3 {
		t.Errorf("min_score = %v", payload.MinScore)
	}
	if payload.MaxCitations != nil {
		t.Error("unset max_citations should stay nil")
	}
}

func TestBuildAskPayload_EmptyFiltersOmitted(t *testing.T) {
	payload := buildAskPayload(&regclient.AskRequest{
		Question: "q",
		Filters:  &regclient.Filters{},
	}, false)

	if payload.Filters != nil {
		t.Error("empty filters should be omitted from the payload")
	}
	if payload.Stream {
		t.Error("expected stream=false")
	}
}
