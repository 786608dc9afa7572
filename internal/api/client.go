// Package api provides a client for the chaos dashboard REST API.
//
// Usage:
//
//	c, err := api.New("http://localhost:2333",
//	    api.WithToken(token),
//	    api.WithRateLimit(10, 20),
//	)
//
//	experiments, err := c.ListExperiments(ctx)
//	err = c.PauseExperiment(ctx, experiments[0].UID)
//
// Every failed call returns an *errors.APIError whose Err is one of the
// sentinels in internal/errors, so callers can branch with errors.IsNotFound
// and friends.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	cqerrors "github.com/chazuruo/chaosq/internal/errors"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Client talks to the dashboard API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	namespace  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a client for the dashboard at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("chaosq/api: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("chaosq/api: unsupported scheme %q: %w", u.Scheme, cqerrors.ErrInvalid)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the dashboard base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// errorBody is the dashboard's error payload.
type errorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// do sends a request to /api{path} and decodes a JSON response into out
// (skipped when out is nil). path must already be escaped.
func (c *Client) do(ctx context.Context, method, op, path string, query url.Values, out any) error {
	endpoint := "/api" + path
	fail := func(status int, msg string, err error) error {
		return &cqerrors.APIError{Op: op, Endpoint: endpoint, Status: status, Message: msg, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, "", fmt.Errorf("%w: %w", cqerrors.ErrCanceled, err))
		}
	}

	// Path segments arrive escaped. Path and RawPath must agree so the
	// URL is not escaped twice.
	rawPath := strings.TrimRight(c.baseURL.EscapedPath(), "/") + endpoint
	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		return fail(0, "", fmt.Errorf("%w: %w", cqerrors.ErrInvalid, err))
	}
	u := *c.baseURL
	u.Path, u.RawPath = unescaped, rawPath
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fail(0, "", fmt.Errorf("%w: %w", cqerrors.ErrInvalid, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fail(0, "", fmt.Errorf("%w: %w", cqerrors.ErrCanceled, ctx.Err()))
		}
		return fail(0, "", fmt.Errorf("%w: %w", cqerrors.ErrTransport, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if sentinel := cqerrors.ForStatus(resp.StatusCode); sentinel != nil {
		return fail(resp.StatusCode, readErrorMessage(resp.Body), sentinel)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("%w: decode response: %w", cqerrors.ErrServer, err))
	}
	return nil
}

// readErrorMessage extracts a human message from an error response body.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
		return eb.Message
	}
	return strings.TrimSpace(string(data))
}

// listQuery returns the query shared by every list endpoint.
func (c *Client) listQuery() url.Values {
	q := url.Values{}
	if c.namespace != "" {
		q.Set("namespace", c.namespace)
	}
	return q
}

// list fetches a JSON array from a list endpoint. A null body is an empty list.
func list[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, op, path, c.listQuery(), &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ListWorkflows returns all workflows.
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	return list[Workflow](ctx, c, "list workflows", "/workflows")
}

// ListWorkflowArchives returns archived workflows.
func (c *Client) ListWorkflowArchives(ctx context.Context) ([]Archive, error) {
	return list[Archive](ctx, c, "list workflow archives", "/archives/workflows")
}

// ListSchedules returns all schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	return list[Schedule](ctx, c, "list schedules", "/schedules")
}

// ListScheduleArchives returns archived schedules.
func (c *Client) ListScheduleArchives(ctx context.Context) ([]Archive, error) {
	return list[Archive](ctx, c, "list schedule archives", "/archives/schedules")
}

// ListExperiments returns all experiments.
func (c *Client) ListExperiments(ctx context.Context) ([]Experiment, error) {
	return list[Experiment](ctx, c, "list experiments", "/experiments")
}

// ListArchives returns archived experiments.
func (c *Client) ListArchives(ctx context.Context) ([]Archive, error) {
	return list[Archive](ctx, c, "list archives", "/archives")
}
