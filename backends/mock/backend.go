package mock

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	regclient "github.com/reglens/reglens-go"
)

// Backend is a mock answer backend that fabricates regulatory answers.
// Used for demos, UI work, and testing without credentials or network.
//
// Question directives change behavior, mirroring how a demo drives it:
//   - "mock:error"       backend sends an explicit error event mid-answer
//   - "mock:truncate"    stream ends without a terminal event
//   - "mock:unanswerable" no citations, answerable=false, low confidence
//   - "mock:slow"        word delay raised to 300ms
type Backend struct {
	generator *loremgen.Lorem
	cfg       Config
}

// Config tunes the mock. The zero value is usable.
type Config struct {
	// TokenDelay is the pause between streamed tokens. Default 40ms.
	TokenDelay time.Duration

	// AskDelay is the simulated latency of the blocking Ask call. Default 400ms.
	AskDelay time.Duration

	// Confidence reported in final metadata. Default 0.87.
	Confidence float64

	// OmitAnswerable leaves the answerable flag unset in final metadata,
	// exercising the client-side default.
	OmitAnswerable bool
}

// New creates a mock backend.
func New(cfg Config) *Backend {
	if cfg.TokenDelay <= 0 {
		cfg.TokenDelay = 40 * time.Millisecond
	}
	if cfg.AskDelay <= 0 {
		cfg.AskDelay = 400 * time.Millisecond
	}
	if cfg.Confidence <= 0 {
		cfg.Confidence = 0.87
	}
	return &Backend{
		generator: loremgen.New(),
		cfg:       cfg,
	}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return regclient.BackendMock.String()
}

// SupportsLocale returns true for the locales the mock has canned answers in.
func (b *Backend) SupportsLocale(locale string) bool {
	switch strings.ToLower(locale) {
	case "en", "ko":
		return true
	default:
		return false
	}
}

// Ask fabricates a complete answer after a simulated processing delay.
func (b *Backend) Ask(ctx context.Context, req *regclient.AskRequest) (*regclient.AskResponse, error) {
	if err := regclient.ValidateAskRequest(req); err != nil {
		return nil, err
	}

	select {
	case <-time.After(b.cfg.AskDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if strings.Contains(req.Question, "mock:error") {
		return nil, &regclient.BackendError{Message: "mock backend failure requested"}
	}

	answer, citations, meta := b.fabricate(req)
	resp := &regclient.AskResponse{
		Answer:            answer,
		Summary:           meta.Summary,
		IndustryImpact:    meta.IndustryImpact,
		Citations:         citations,
		Confidence:        meta.Confidence,
		GroundednessScore: meta.GroundednessScore,
		CitationCoverage:  meta.CitationCoverage,
		UncertaintyNote:   meta.UncertaintyNote,
		Answerable:        meta.Answerable,
	}
	return resp, nil
}

// AskStream fabricates an answer and streams it word by word.
func (b *Backend) AskStream(ctx context.Context, req *regclient.AskRequest) (<-chan regclient.StreamEvent, error) {
	if err := regclient.ValidateAskRequest(req); err != nil {
		return nil, err
	}

	eventChan := make(chan regclient.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		question := req.Question
		delay := b.cfg.TokenDelay
		if strings.Contains(question, "mock:slow") {
			delay = 300 * time.Millisecond
		}

		answer, citations, meta := b.fabricate(req)
		failAfter := -1
		if strings.Contains(question, "mock:error") {
			failAfter = 4
		}
		truncate := strings.Contains(question, "mock:truncate")

		log.Printf("[MOCK] AskStream started: words=%d, citations=%d, delay=%s",
			len(strings.Fields(answer)), len(citations), delay)

		if len(citations) > 0 {
			select {
			case eventChan <- regclient.StreamEvent{Citations: &regclient.CitationsEvent{Citations: citations}}:
			case <-ctx.Done():
				return
			}
		}

		words := strings.Fields(answer)
		for i, word := range words {
			select {
			case <-ctx.Done():
				log.Printf("[MOCK] AskStream cancelled at word %d", i)
				return
			default:
			}

			if failAfter >= 0 && i == failAfter {
				log.Printf("[MOCK] AskStream injecting error event at word %d", i)
				eventChan <- regclient.StreamEvent{Err: &regclient.BackendError{Message: "mock backend failure requested"}}
				return
			}
			if truncate && i == len(words)/2 {
				log.Printf("[MOCK] AskStream truncating without terminal event at word %d", i)
				return
			}

			token := word
			if i < len(words)-1 {
				token += " "
			}
			select {
			case eventChan <- regclient.StreamEvent{Token: &regclient.TokenEvent{Text: token}}:
			case <-ctx.Done():
				return
			}

			time.Sleep(delay)
		}

		select {
		case eventChan <- regclient.StreamEvent{Final: &regclient.FinalEvent{Metadata: meta}}:
			log.Printf("[MOCK] AskStream complete: confidence=%.2f", meta.Confidence)
		case <-ctx.Done():
		}
	}()

	return eventChan, nil
}

// fabricate builds the answer text, citations, and metadata for a request.
func (b *Backend) fabricate(req *regclient.AskRequest) (string, []regclient.Citation, regclient.AnswerMetadata) {
	locale := "en"
	if req.Params != nil {
		locale = req.Params.GetLocale("en")
	}

	if strings.Contains(req.Question, "mock:unanswerable") {
		meta := regclient.AnswerMetadata{
			Confidence:        0.21,
			GroundednessScore: 0.10,
			CitationCoverage:  0.0,
			UncertaintyNote:   stringPtr("The corpus has no coverage for this question."),
		}
		if !b.cfg.OmitAnswerable {
			answerable := false
			meta.Answerable = &answerable
		}
		return unanswerableText(locale), nil, meta
	}

	citations := sampleCitations()
	answer := b.answerText(locale)

	meta := regclient.AnswerMetadata{
		Summary:           stringPtr(b.generator.Sentence(8, 14)),
		IndustryImpact:    stringPtr(b.generator.Sentence(10, 18)),
		Confidence:        b.cfg.Confidence,
		GroundednessScore: 0.91,
		CitationCoverage:  0.83,
	}
	if !b.cfg.OmitAnswerable {
		answerable := true
		meta.Answerable = &answerable
	}
	return answer, citations, meta
}

// answerText produces a cited answer in the requested locale. Korean gets a
// canned answer; everything else gets generated prose with markers injected
// after the first sentences.
func (b *Backend) answerText(locale string) string {
	if locale == "ko" {
		return "전자금융거래법 개정에 따라 가상자산 사업자는 강화된 고객확인 의무를 적용받습니다 [1]. " +
			"분기별 보고 주기도 단축되어 시행일 이후 첫 보고는 개정 서식을 따라야 합니다 [2]. " +
			"세부 시행 기준은 출처 [3] 을 참고하십시오."
	}

	var sb strings.Builder
	for i := 1; i <= 3; i++ {
		sb.WriteString(b.generator.Sentence(8, 16))
		fmt.Fprintf(&sb, " [%d] ", i)
	}
	sb.WriteString(b.generator.Sentence(6, 12))
	return strings.TrimSpace(sb.String())
}

func unanswerableText(locale string) string {
	if locale == "ko" {
		return "현재 수집된 규제 문서에서는 해당 질문에 대한 근거를 찾을 수 없습니다."
	}
	return "The collected regulatory documents do not contain evidence for this question."
}

// sampleCitations returns the mock's standing evidence set. IDs are stable
// so demos and tests can reference them.
func sampleCitations() []regclient.Citation {
	return []regclient.Citation{
		{
			ChunkID:       "chunk-0001",
			DocumentID:    "doc-efta-2025",
			DocumentTitle: "Electronic Financial Transactions Act - 2025 Amendment",
			PublishedAt:   "2025-03-14",
			Snippet:       "Virtual asset service providers shall apply enhanced customer due diligence from the effective date.",
			URL:           "https://law.example.gov/efta/2025",
		},
		{
			ChunkID:       "chunk-0002",
			DocumentID:    "doc-fsc-2025-07",
			DocumentTitle: "FSC Supervisory Guideline 2025-07",
			PublishedAt:   "2025-05-02",
			Snippet:       "Quarterly reporting cycles are shortened to thirty days after quarter end using the revised forms.",
			URL:           "https://fsc.example.gov/guidelines/2025-07",
		},
		{
			ChunkID:       "chunk-0003",
			DocumentID:    "doc-enforce-118",
			DocumentTitle: "Enforcement Decree Article 118 Commentary",
			PublishedAt:   "2025-06-21",
			Snippet:       "Implementation criteria are detailed in the annexed commentary to Article 118.",
			URL:           "https://law.example.gov/decree/118",
		},
	}
}

func stringPtr(s string) *string {
	return &s
}
