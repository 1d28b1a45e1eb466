package regclient

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// SegmentType discriminates the variants of a rendered answer segment.
type SegmentType string

const (
	// SegmentText is a literal run of answer text.
	SegmentText SegmentType = "text"

	// SegmentCitationMarker is an in-text citation reference like "[2]" or
	// "출처 [1]", resolved by position against the received citation list.
	SegmentCitationMarker SegmentType = "citation_marker"
)

// Segment is one renderable piece of an answer. The correlator produces an
// alternating sequence of text and marker segments; segments are ephemeral
// and recomputed whenever the answer text or citations change.
type Segment struct {
	// Type discriminates which fields below are meaningful.
	Type SegmentType

	// Content is the literal text run (text segments only).
	Content string

	// MatchedLiteral is the marker exactly as written in the answer,
	// including any label word (marker segments only).
	MatchedLiteral string

	// CitationIndex is the 0-based position into the citation list, i.e.
	// the in-text number minus one (marker segments only).
	CitationIndex int

	// Citation is the resolved evidence record, nil when CitationIndex is
	// beyond the citations received so far. Unresolved markers are a normal
	// mid-stream state and render as visually distinct, not as errors.
	Citation *Citation
}

// IsText reports whether the segment is a plain text run.
func (s Segment) IsText() bool {
	return s.Type == SegmentText
}

// IsMarker reports whether the segment is a citation marker.
func (s Segment) IsMarker() bool {
	return s.Type == SegmentCitationMarker
}

// Resolved reports whether a marker segment found its citation.
func (s Segment) Resolved() bool {
	return s.Type == SegmentCitationMarker && s.Citation != nil
}

// Correlator scans answer text for citation markers. The zero pattern is
// "a 1-based integer in brackets, optionally preceded by a marker label",
// case-insensitive and whitespace-tolerant around the label.
type Correlator struct {
	pattern *regexp.Regexp
}

// NewCorrelator returns a correlator recognizing the given marker labels in
// front of bracketed numbers. With no labels only the bare bracket pattern
// matches.
func NewCorrelator(labels ...string) *Correlator {
	return &Correlator{pattern: markerPattern(labels)}
}

// markerPattern builds the marker regex from a label vocabulary. Labels are
// quoted, so vocabulary from config can never inject pattern syntax.
func markerPattern(labels []string) *regexp.Regexp {
	quoted := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(label))
	}
	if len(quoted) == 0 {
		return regexp.MustCompile(`\[(\d+)\]`)
	}
	return regexp.MustCompile(`(?i)(?:(?:` + strings.Join(quoted, "|") + `)\s*)?\[(\d+)\]`)
}

// Correlate splits text into alternating text and citation-marker segments,
// resolving each marker against the arrival-ordered citation list. It is a
// pure function of its inputs and safe to call on partial mid-stream text:
// an unterminated bracket at the end of the buffer stays plain text, and a
// marker pointing past the citations received so far yields an unresolved
// marker rather than an error.
//
// Markers with a zero number or bracket content that does not parse as a
// positive integer are treated as ordinary text. Matches never overlap;
// scanning resumes after each match.
func (c *Correlator) Correlate(text string, citations []Citation) []Segment {
	if text == "" {
		return nil
	}

	matches := c.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Type: SegmentText, Content: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		number, err := strconv.Atoi(text[match[2]:match[3]])
		if err != nil || number <= 0 {
			// Not a usable 1-based reference; the span stays inside the
			// surrounding text run.
			continue
		}

		if start > last {
			segments = append(segments, Segment{Type: SegmentText, Content: text[last:start]})
		}

		segment := Segment{
			Type:           SegmentCitationMarker,
			MatchedLiteral: text[start:end],
			CitationIndex:  number - 1,
		}
		if number-1 < len(citations) {
			citation := citations[number-1]
			segment.Citation = &citation
		}
		segments = append(segments, segment)
		last = end
	}

	if last < len(text) {
		segments = append(segments, Segment{Type: SegmentText, Content: text[last:]})
	}
	return segments
}

var (
	defaultCorrelator     *Correlator
	defaultCorrelatorOnce sync.Once
)

// Correlate runs the default correlator, which recognizes the marker
// vocabulary of every registered locale at once. Answers routinely quote
// sources in a different language than the question, so the default does
// not narrow by locale; use NewCorrelator to restrict the label set.
func Correlate(text string, citations []Citation) []Segment {
	defaultCorrelatorOnce.Do(func() {
		defaultCorrelator = NewCorrelator(GetLocaleRegistry().AllMarkerLabels()...)
	})
	return defaultCorrelator.Correlate(text, citations)
}
