package regclient

import "fmt"

// ResponseToState converts a complete non-streamed answer into the terminal
// AnswerState a successful stream would have produced. Correlation, quality
// panels, and transcript display consume AnswerState only, so both request
// paths render through the same code.
//
// The answerable default matches streaming: absent means true only when
// citations are present.
func ResponseToState(resp *AskResponse) AnswerState {
	if resp == nil {
		return AnswerState{
			Status:       StatusFailed,
			Failure:      FailureTransport,
			ErrorMessage: transportFailureMessage,
		}
	}

	citations := append([]Citation(nil), resp.Citations...)
	meta := &AnswerMetadata{
		Summary:           resp.Summary,
		IndustryImpact:    resp.IndustryImpact,
		Confidence:        resp.Confidence,
		GroundednessScore: resp.GroundednessScore,
		CitationCoverage:  resp.CitationCoverage,
		UncertaintyNote:   resp.UncertaintyNote,
		Answerable:        resp.Answerable,
	}
	if meta.Answerable == nil {
		answerable := meta.ResolveAnswerable(citations)
		meta.Answerable = &answerable
	}

	return AnswerState{
		Text:      resp.Answer,
		Citations: citations,
		Metadata:  meta,
		Status:    StatusComplete,
	}
}

// StateToResponse converts a terminal AnswerState into the non-streaming
// response shape, used when exporting transcripts. Only complete answers
// convert; failed and in-flight answers have no response form.
func StateToResponse(state AnswerState) (*AskResponse, error) {
	if state.Status != StatusComplete {
		return nil, fmt.Errorf("cannot export answer in status %s", state.Status)
	}

	resp := &AskResponse{
		Answer:    state.Text,
		Citations: append([]Citation(nil), state.Citations...),
	}
	if state.Metadata != nil {
		resp.Summary = state.Metadata.Summary
		resp.IndustryImpact = state.Metadata.IndustryImpact
		resp.Confidence = state.Metadata.Confidence
		resp.GroundednessScore = state.Metadata.GroundednessScore
		resp.CitationCoverage = state.Metadata.CitationCoverage
		resp.UncertaintyNote = state.Metadata.UncertaintyNote
		resp.Answerable = state.Metadata.Answerable
	}
	return resp, nil
}
