package logsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edgewatch/edgewatch/internal/config"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 2048

// SourceUnavailableError reports a failed log query. Status is 0 when the
// request never produced a response (transport failure).
type SourceUnavailableError struct {
	Status int
	Body   string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("log source unavailable: %v", e.Err)
	}
	return fmt.Sprintf("log source unavailable: status %d: %s", e.Status, e.Body)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// Client queries the log-analytics endpoint for one project.
type Client struct {
	cfg    config.SourceConfig
	client *http.Client
}

// New returns a Client for the given source configuration. The bearer token
// is injected on every request by the client's transport.
func New(cfg config.SourceConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: &authRoundTripper{base: http.DefaultTransport, token: cfg.Token},
			Timeout:   cfg.Timeout,
		},
	}
}

// authRoundTripper injects the bearer token into every outgoing request.
// The token is resolved per request so env rotation takes effect without
// rebuilding the client.
type authRoundTripper struct {
	base  http.RoundTripper
	token func() string
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.token(); tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return t.base.RoundTrip(req)
}

// queryResponse is the wire shape of a successful analytics query.
type queryResponse struct {
	Result []Entry `json:"result"`
}

// Fetch queries entries in [start, end) whose severity is in severities.
// Entries come back newest-first; callers must not rely on the order.
// Any transport failure or non-2xx response is a *SourceUnavailableError.
func (c *Client) Fetch(ctx context.Context, start, end time.Time, severities []string) ([]Entry, error) {
	sql, err := buildQuery(c.cfg.Table, start, end, severities)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("sql", sql)
	q.Set("iso_timestamp_start", start.UTC().Format(time.RFC3339))
	q.Set("iso_timestamp_end", end.UTC().Format(time.RFC3339))

	u := fmt.Sprintf("%s/v1/projects/%s/analytics/endpoints/logs.all?%s",
		strings.TrimSuffix(c.cfg.Endpoint, "/"),
		url.PathEscape(c.cfg.ProjectRef),
		q.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("logsource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &SourceUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &SourceUnavailableError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, &SourceUnavailableError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return qr.Result, nil
}
