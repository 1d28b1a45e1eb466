package regapi

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	regclient "github.com/reglens/reglens-go"
)

// AskStream submits a question and streams the answer incrementally.
//
// The returned channel carries events in wire arrival order. An explicit
// backend error event arrives as StreamEvent.Err wrapping *BackendError; a
// connection-level failure arrives as StreamEvent.Err wrapping
// *TransportError. Undecodable frames are logged and skipped, never fatal.
// The channel closes after the terminal event, or after EOF when the
// backend ended the stream without one.
func (c *Client) AskStream(ctx context.Context, req *regclient.AskRequest) (<-chan regclient.StreamEvent, error) {
	if err := regclient.ValidateAskRequest(req); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	httpReq, err := c.buildHTTPRequest(ctx, "/answers/stream", buildAskPayload(req, true), requestID)
	if err != nil {
		return nil, err
	}

	// Set Accept header for the event stream
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "stream request failed",
			Err:       err,
		}
	}

	// Check for immediate errors
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.handleErrorResponse(resp, requestID)
	}

	// Buffered so a briefly slow consumer doesn't stall body reads
	eventChan := make(chan regclient.StreamEvent, 10)

	go func() {
		defer close(eventChan)
		defer resp.Body.Close()

		if err := c.streamEvents(ctx, resp.Body, requestID, eventChan); err != nil {
			eventChan <- regclient.StreamEvent{Err: err}
		}
	}()

	return eventChan, nil
}

// streamEvents decodes stream lines and forwards events until a terminal
// event, EOF, or cancellation. The returned error, if any, still needs to
// reach the consumer as an event.
func (c *Client) streamEvents(ctx context.Context, body io.Reader, requestID string, eventChan chan<- regclient.StreamEvent) error {
	logger := c.logger.With("request_id", requestID)
	decoder := regclient.NewLineDecoder(body)

	for {
		line, err := decoder.Next()
		if err == io.EOF {
			// The consumer decides what an unterminated stream means.
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &regclient.TransportError{
				Backend:   c.Name(),
				RequestID: requestID,
				Message:   "error reading stream",
				Err:       err,
			}
		}

		event, err := regclient.ParseFrame(line)
		if err != nil {
			// Tagged but undecodable: drop the frame and keep reading.
			logger.Warn("dropping undecodable frame", "error", err)
			continue
		}
		if event == nil {
			// Keep-alive or comment line
			continue
		}

		select {
		case eventChan <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}

		if event.Terminal() {
			// Nothing after final/error is meaningful
			return nil
		}
	}
}
