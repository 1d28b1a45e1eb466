package regapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	regclient "github.com/reglens/reglens-go"
)

const (
	defaultBaseURL = "https://api.reglens.io/api/v1"

	// defaultRequestTimeout bounds non-streaming calls. Streaming requests
	// are bounded by their context instead: a client-wide timeout would cut
	// off long answers mid-stream.
	defaultRequestTimeout = 30 * time.Second

	// Client-side politeness limit; the backend enforces its own quota.
	defaultRequestsPerSecond = 4
	defaultBurst             = 2
)

// Client implements the regclient.Backend interface against the RegLens
// answer API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	timeout    time.Duration
}

// Config carries the knobs for constructing a Client. APIKey is required;
// everything else has a sensible default.
type Config struct {
	// APIKey authenticates every request (Bearer token).
	APIKey string

	// BaseURL overrides the production API root. Mostly used by tests.
	BaseURL string

	// HTTPClient overrides the transport. The default client carries no
	// client-wide timeout so streams can run long; leave it that way unless
	// you know every call is short.
	HTTPClient *http.Client

	// Logger receives request diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// RequestsPerSecond caps outbound request rate client-side.
	RequestsPerSecond float64

	// Timeout bounds non-streaming requests. Zero means the default.
	Timeout time.Duration
}

// New creates a RegLens API client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, regclient.ErrInvalidAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With("backend", regclient.BackendRegAPI.String()),
		limiter:    rate.NewLimiter(rate.Limit(rps), defaultBurst),
		timeout:    timeout,
	}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string {
	return regclient.BackendRegAPI.String()
}

// SupportsLocale returns true for any non-blank locale; the production
// backend answers in whatever language the corpus covers.
func (c *Client) SupportsLocale(locale string) bool {
	return locale != ""
}

// Ask submits a question and blocks for the complete answer.
func (c *Client) Ask(ctx context.Context, req *regclient.AskRequest) (*regclient.AskResponse, error) {
	if err := regclient.ValidateAskRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	httpReq, err := c.buildHTTPRequest(ctx, "/answers", buildAskPayload(req, false), requestID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "answer request failed",
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp, requestID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "failed to read answer body",
			Err:       err,
		}
	}

	var answer regclient.AskResponse
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "failed to parse answer body",
			Err:       err,
		}
	}

	return &answer, nil
}

// buildHTTPRequest creates a POST request with auth and tracing headers.
func (c *Client) buildHTTPRequest(ctx context.Context, path string, payload any, requestID string) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// Set headers
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	return httpReq, nil
}
