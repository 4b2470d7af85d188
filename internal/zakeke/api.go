package zakeke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/printeers/zakeke-sync/internal/metrics"
)

const defaultUserAgent = "printeers/zakeke-sync"

// APIClient implements Client against the Zakeke REST API. Every request
// fetches a valid bearer token from the TokenProvider first; failures are
// classified into transport, protocol, and application errors so batch
// callers can skip the item and retry on the next cycle.
type APIClient struct {
	tokens      TokenProvider
	baseURL     string
	userAgent   string
	client      *http.Client
	rateLimiter *RateLimiter
}

// APIOption configures the APIClient.
type APIOption func(*APIClient)

// WithAPIHTTPClient overrides the default HTTP client.
func WithAPIHTTPClient(hc *http.Client) APIOption {
	return func(c *APIClient) {
		c.client = hc
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) APIOption {
	return func(c *APIClient) {
		c.userAgent = ua
	}
}

// WithAPIRateLimiter injects a rate limiter that controls per-second and
// daily API call limits. When set, every request goes through Wait() first.
func WithAPIRateLimiter(r *RateLimiter) APIOption {
	return func(c *APIClient) {
		c.rateLimiter = r
	}
}

// NewAPIClient creates a Zakeke API client rooted at baseURL.
func NewAPIClient(tokens TokenProvider, baseURL string, opts ...APIOption) *APIClient {
	c := &APIClient{
		tokens:    tokens,
		baseURL:   strings.TrimSuffix(baseURL, "/") + "/",
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type importTaskResponse struct {
	TaskID json.Number `json:"taskID"`
}

// ImportProducts uploads a multipart-wrapped CSV archive and returns the
// queued task ID.
func (c *APIClient) ImportProducts(
	ctx context.Context,
	body io.Reader,
	contentType string,
) (string, error) {
	raw, err := c.send(ctx, http.MethodPost, "v2/csv/import", body, contentType, nil)
	if err != nil {
		return "", err
	}

	var task importTaskResponse
	if err := json.Unmarshal(raw, &task); err != nil {
		return "", fmt.Errorf("%w: parsing import response: %w", ErrMalformedResponse, err)
	}
	if task.TaskID.String() == "" {
		return "", fmt.Errorf("%w: import response carries no taskID", ErrMalformedResponse)
	}

	return task.TaskID.String(), nil
}

// ImportResult fetches the current result of an import task.
func (c *APIClient) ImportResult(ctx context.Context, taskID string) (*ImportResult, error) {
	endpoint := "v2/csv/importingresult/" + url.PathEscape(taskID)

	raw, err := c.send(ctx, http.MethodGet, endpoint, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var result ImportResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: parsing import result: %w", ErrMalformedResponse, err)
	}

	return &result, nil
}

// DesignOutputFiles requests the print-ready output bundle location for a
// finalized design.
func (c *APIClient) DesignOutputFiles(ctx context.Context, designID string) (*OutputFiles, error) {
	endpoint := "v1/designs/" + url.PathEscape(designID) + "/outputfiles/zip"

	raw, err := c.send(ctx, http.MethodGet, endpoint, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var files OutputFiles
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("%w: parsing output files response: %w", ErrMalformedResponse, err)
	}

	return &files, nil
}

// send performs one authenticated request and returns the raw JSON body
// after protocol and application error checks.
func (c *APIClient) send(
	ctx context.Context,
	method, endpoint string,
	body io.Reader,
	contentType string,
	query url.Values,
) (json.RawMessage, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.APIDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}
	metrics.APICallsTotal.Inc()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	return checkResponse(raw, resp.StatusCode)
}

// checkResponse validates that the body is well-formed JSON, is not a bare
// null, and carries no top-level "error" field.
func checkResponse(raw []byte, status int) (json.RawMessage, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w (status %d): %s", ErrMalformedResponse, status, truncate(raw))
	}
	if decoded == nil {
		return nil, fmt.Errorf("%w (status %d): response decoded to null", ErrMalformedResponse, status)
	}

	if obj, ok := decoded.(map[string]any); ok {
		if errVal, found := obj["error"]; found {
			return nil, &APIError{Message: fmt.Sprint(errVal)}
		}
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrMalformedResponse, status, truncate(raw))
	}

	return raw, nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
