package regclient

import (
	"context"
)

// Backend defines the interface that all answer backends must implement.
// This abstraction allows supporting multiple backends (the production
// regulation API, a local mock, future offline bundles) while maintaining a
// consistent interface.
//
// Types used by this interface:
//   - AskRequest, Filters: defined in request.go and filters.go
//   - AskResponse: defined in response.go
//   - StreamEvent: defined in streaming.go
type Backend interface {
	// Ask submits a question and returns the complete answer (blocking).
	// Used for non-streaming scenarios or as fallback.
	Ask(ctx context.Context, req *AskRequest) (*AskResponse, error)

	// AskStream submits a question and streams the answer incrementally.
	// Returns a channel that emits StreamEvent as they arrive.
	// The channel is closed when streaming completes or encounters an error;
	// quality metadata arrives in the final event. Events must be consumed
	// in order, and a stream that closes without a final or error event is a
	// transport failure.
	//
	// Usage:
	//   eventChan, err := backend.AskStream(ctx, req)
	//   if err != nil { return err }
	//   for event := range eventChan {
	//     if event.Err != nil { handle error }
	//     if event.Token != nil { append token }
	//     if event.Final != nil { streaming complete }
	//   }
	AskStream(ctx context.Context, req *AskRequest) (<-chan StreamEvent, error)

	// Name returns the backend name (e.g., "regapi", "mock")
	Name() string

	// SupportsLocale returns true if the backend can answer questions in
	// the given locale.
	SupportsLocale(locale string) bool
}
