package regclient

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// User-facing failure messages. Connection-level causes are logged but
// never shown verbatim, so infrastructure detail cannot leak into the UI.
const (
	transportFailureMessage = "The answer service could not be reached. Please try again."
	cancelledMessage        = "Answer cancelled."
)

// Session is the handle for one question/answer exchange. It owns the
// exchange's AnswerState: a single goroutine folds stream events into the
// state in strict arrival order, and everything handed out through
// Snapshot or Updates is an immutable value copy. Callers never hold a
// live reference to the mutating state, so reads are safe from any
// goroutine at any time.
//
// A session is single-use. Submitting a new question means starting a new
// session; a UI slot showing one answer at a time must Cancel the old
// session before starting the next.
type Session struct {
	id       string
	backend  string
	question string
	cancel   context.CancelFunc
	logger   *slog.Logger

	mu           sync.RWMutex
	text         strings.Builder
	citations    []Citation
	citationsSet bool
	metadata     *AnswerMetadata
	status       AnswerStatus
	failure      FailureKind
	errMsg       string

	updates chan AnswerState
	done    chan struct{}
}

// SessionOptions tunes session behavior. The zero value is usable.
type SessionOptions struct {
	// Logger receives session lifecycle and dropped-frame diagnostics.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Start validates the request, opens the stream on the backend, and returns
// a session already in StatusStreaming. The returned error is non-nil when
// validation fails or the backend could not open the stream; after that
// point all failure is conveyed through the terminal AnswerState, never as
// an error value.
func Start(ctx context.Context, backend Backend, req *AskRequest, opts *SessionOptions) (*Session, error) {
	if err := ValidateAskRequest(req); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &SessionOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	events, err := backend.AskStream(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &Session{
		id:       uuid.NewString(),
		backend:  backend.Name(),
		question: req.Question,
		cancel:   cancel,
		status:   StatusStreaming,
		updates:  make(chan AnswerState, 1),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("session_id", s.id, "backend", s.backend)
	s.logger.Debug("session started", "question_len", len(req.Question))

	go s.run(ctx, events)
	return s, nil
}

// ID returns the client-generated session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// BackendName returns the name of the backend answering this session.
func (s *Session) BackendName() string {
	return s.backend
}

// Question returns the question this session was started with.
func (s *Session) Question() string {
	return s.question
}

// Updates returns the snapshot channel. Snapshots are coalesced: when the
// consumer lags, intermediate snapshots are dropped in favor of the newest,
// and the terminal snapshot is always delivered. The channel is closed once
// the exchange reaches a terminal state.
func (s *Session) Updates() <-chan AnswerState {
	return s.updates
}

// Done returns a channel closed once the exchange reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the current answer state as an immutable value copy.
func (s *Session) Snapshot() AnswerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AnswerState{
		Text:         s.text.String(),
		Citations:    s.citations,
		Metadata:     s.metadata,
		Status:       s.status,
		ErrorMessage: s.errMsg,
		Failure:      s.failure,
	}
}

// Wait blocks until the exchange reaches a terminal state or ctx expires,
// returning the latest snapshot either way.
func (s *Session) Wait(ctx context.Context) (AnswerState, error) {
	select {
	case <-s.done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Cancel aborts the exchange's transport. Safe to call from any goroutine
// and idempotent; once the answer is terminal it has no effect. The state
// transition to Failed/cancelled happens on the fold goroutine, which also
// discards any bytes that were already in flight.
func (s *Session) Cancel() {
	s.cancel()
}

// run is the fold loop and the only mutator of session state. Each event
// is fully applied before the next is read, which keeps token appends
// ordered and makes final/error the last mutation.
func (s *Session) run(ctx context.Context, events <-chan StreamEvent) {
	defer func() {
		s.cancel()
		close(s.updates)
		close(s.done)
	}()

	// First snapshot tells subscribers the exchange is live.
	s.publish()

	terminal := false
	for ev := range events {
		if terminal || ctx.Err() != nil {
			// Late events for a finished or cancelled exchange carry no
			// meaning; drain them so the backend goroutine can exit.
			continue
		}
		if s.apply(ev) {
			terminal = true
			s.cancel()
		}
	}

	if !terminal {
		// Stream ended with neither final nor error.
		if errors.Is(ctx.Err(), context.Canceled) {
			s.markFailed(context.Canceled)
		} else {
			s.markFailed(&TransportError{
				Backend: s.backend,
				Message: "stream ended before completion",
				Err:     ErrBackendUnavailable,
			})
		}
	}
}

// apply folds one event into the state and reports whether it was terminal.
func (s *Session) apply(ev StreamEvent) bool {
	switch {
	case ev.Err != nil:
		s.markFailed(ev.Err)
		return true

	case ev.Citations != nil:
		s.applyCitations(ev.Citations)

	case ev.Token != nil:
		s.applyToken(ev.Token)

	case ev.Final != nil:
		s.applyFinal(ev.Final)
		return true

	default:
		s.logger.Warn("dropping empty stream event")
	}
	return false
}

// applyCitations records the evidence list. Only the first citations event
// counts; display indices must not shift under markers already rendered.
func (s *Session) applyCitations(ev *CitationsEvent) {
	s.mu.Lock()
	if s.citationsSet {
		s.mu.Unlock()
		s.logger.Warn("ignoring repeated citations event", "count", len(ev.Citations))
		return
	}
	s.citations = append([]Citation(nil), ev.Citations...)
	s.citationsSet = true
	s.mu.Unlock()

	s.publish()
}

func (s *Session) applyToken(ev *TokenEvent) {
	s.mu.Lock()
	s.text.WriteString(ev.Text)
	s.mu.Unlock()

	s.publish()
}

func (s *Session) applyFinal(ev *FinalEvent) {
	meta := ev.Metadata

	s.mu.Lock()
	if meta.Answerable == nil {
		answerable := meta.ResolveAnswerable(s.citations)
		meta.Answerable = &answerable
	}
	s.metadata = &meta
	s.status = StatusComplete
	s.mu.Unlock()

	s.logger.Debug("answer complete",
		"confidence", meta.Confidence,
		"groundedness", meta.GroundednessScore,
		"citations", len(s.citations))
	s.publish()
}

// markFailed transitions to StatusFailed, classifying the cause. Backend
// error events surface their own message; transport causes are replaced
// with a generic message and kept for logs only.
func (s *Session) markFailed(cause error) {
	var kind FailureKind
	var msg string

	var backendErr *BackendError
	switch {
	case errors.As(cause, &backendErr):
		kind = FailureBackend
		msg = backendErr.Message
		s.logger.Warn("backend reported error", "error", backendErr.Message)
	case errors.Is(cause, context.Canceled):
		kind = FailureCancelled
		msg = cancelledMessage
		s.logger.Debug("exchange cancelled")
	default:
		kind = FailureTransport
		msg = transportFailureMessage
		s.logger.Error("transport failure", "error", cause)
	}

	s.mu.Lock()
	s.status = StatusFailed
	s.failure = kind
	s.errMsg = msg
	s.mu.Unlock()

	s.publish()
}

// publish hands the current snapshot to the updates channel, replacing a
// pending undelivered snapshot rather than blocking the fold loop.
func (s *Session) publish() {
	snap := s.Snapshot()
	select {
	case s.updates <- snap:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- snap:
		default:
		}
	}
}
