package regapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	regclient "github.com/reglens/reglens-go"
)

// Dashboard resource endpoints. These are plain request/response calls; the
// streaming path never touches them.

// DocumentQuery narrows a document listing. Zero-value fields are omitted.
type DocumentQuery struct {
	Industry string
	DocType  string
	Topic    string
	Limit    int
}

// ListDocuments returns corpus documents, newest first.
func (c *Client) ListDocuments(ctx context.Context, q *DocumentQuery) ([]regclient.Document, error) {
	values := url.Values{}
	if q != nil {
		if q.Industry != "" {
			values.Set("industry", q.Industry)
		}
		if q.DocType != "" {
			values.Set("doc_type", q.DocType)
		}
		if q.Topic != "" {
			values.Set("topic", q.Topic)
		}
		if q.Limit > 0 {
			values.Set("limit", strconv.Itoa(q.Limit))
		}
	}

	var envelope struct {
		Documents []regclient.Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/documents", values, &envelope); err != nil {
		return nil, err
	}
	return envelope.Documents, nil
}

// ListTopics returns the corpus topic index.
func (c *Client) ListTopics(ctx context.Context) ([]regclient.Topic, error) {
	var envelope struct {
		Topics []regclient.Topic `json:"topics"`
	}
	if err := c.getJSON(ctx, "/topics", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Topics, nil
}

// ListAlerts returns current regulatory change alerts, newest first.
func (c *Client) ListAlerts(ctx context.Context) ([]regclient.Alert, error) {
	var envelope struct {
		Alerts []regclient.Alert `json:"alerts"`
	}
	if err := c.getJSON(ctx, "/alerts", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Alerts, nil
}

// ListChecklists returns compliance checklists, optionally narrowed to one
// industry code.
func (c *Client) ListChecklists(ctx context.Context, industry string) ([]regclient.Checklist, error) {
	values := url.Values{}
	if industry != "" {
		values.Set("industry", industry)
	}

	var envelope struct {
		Checklists []regclient.Checklist `json:"checklists"`
	}
	if err := c.getJSON(ctx, "/checklists", values, &envelope); err != nil {
		return nil, err
	}
	return envelope.Checklists, nil
}

// AnalyticsSummary returns the dashboard's aggregate statistics.
func (c *Client) AnalyticsSummary(ctx context.Context) (*regclient.AnalyticsSummary, error) {
	var summary regclient.AnalyticsSummary
	if err := c.getJSON(ctx, "/analytics/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// getJSON performs an authenticated GET and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "resource request failed",
			Err:       err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp, requestID)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &regclient.TransportError{
			Backend:   c.Name(),
			RequestID: requestID,
			Message:   "failed to parse resource body",
			Err:       err,
		}
	}
	return nil
}
