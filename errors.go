package regclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrEmptyQuestion indicates the request carried no question text.
	ErrEmptyQuestion = errors.New("regclient: question must not be empty")

	// ErrInvalidAPIKey indicates the API key is missing, malformed, or unauthorized.
	ErrInvalidAPIKey = errors.New("regclient: invalid API key")

	// ErrRateLimited indicates the backend's rate limit has been exceeded.
	ErrRateLimited = errors.New("regclient: rate limit exceeded")

	// ErrInvalidRequest indicates the request parameters are invalid.
	ErrInvalidRequest = errors.New("regclient: invalid request")

	// ErrBackendUnavailable indicates the answer backend is down or unreachable.
	ErrBackendUnavailable = errors.New("regclient: backend unavailable")

	// ErrSessionTerminal indicates an operation was attempted on a session
	// whose answer already reached a terminal state.
	ErrSessionTerminal = errors.New("regclient: session already terminal")
)

// ValidationError represents an error in request parameter validation.
type ValidationError struct {
	Field  string // The request field that failed validation
	Value  any    // The invalid value
	Reason string // Human-readable explanation
	Err    error  // Wrapped error (usually ErrInvalidRequest or ErrEmptyQuestion)
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for '%s' (value: %v): %s (%v)", e.Field, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed for '%s' (value: %v): %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError represents a connection-level failure: request
// construction, dial, reset mid-stream, or a non-2xx HTTP status. It never
// represents an explicit error event from the answer stream (see
// BackendError for those).
type TransportError struct {
	Backend    string // The backend name
	StatusCode int    // HTTP status code (0 when the failure happened below HTTP)
	RequestID  string // Client-generated request ID, for log correlation
	Message    string // Human-readable explanation
	Err        error  // Wrapped sentinel error (ErrRateLimited, ErrBackendUnavailable, etc.)
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend '%s' transport error (status %d): %s", e.Backend, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend '%s' transport error: %s", e.Backend, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendError represents an explicit error event from the answer stream or
// an error body from the non-streaming endpoint. Its message is safe to
// show to the user.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %s", e.Message)
}

// FrameError reports a stream line that carried the event prefix but no
// decodable event. Frame errors are surfaced for logging and skipped; they
// never end an exchange.
type FrameError struct {
	Line string // The offending line, prefix stripped
	Err  error  // The underlying decode error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("undecodable frame %q: %v", e.Line, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is potentially retryable.
// Returns true for rate limits, backend unavailability, network errors, etc.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Rate limits are always retryable
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	// Backend unavailable is retryable
	if errors.Is(err, ErrBackendUnavailable) {
		return true
	}

	// Connection-level failures without a decisive status are retryable
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.StatusCode == 0 || transportErr.StatusCode >= 500 || transportErr.StatusCode == 429
	}

	return false
}

// IsInvalidRequest checks if an error indicates invalid request parameters.
// These errors are not retryable and require request changes.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidRequest) {
		return true
	}

	if errors.Is(err, ErrEmptyQuestion) {
		return true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}

	return false
}

// IsAuthError checks if an error is related to authentication.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrInvalidAPIKey) {
		return true
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		// HTTP 401/403 indicate auth issues
		return transportErr.StatusCode == 401 || transportErr.StatusCode == 403
	}

	return false
}

// IsFrameError checks if an error reports an undecodable stream frame.
// Frame errors are informational; callers log them and keep reading.
func IsFrameError(err error) bool {
	if err == nil {
		return false
	}

	var frameErr *FrameError
	return errors.As(err, &frameErr)
}
