// Package api implements the typed HTTP client for the knowledge base
// backend. It is the single place that knows routes, wire shapes and the
// mapping from HTTP statuses onto domain errors; services above it only
// see the port interfaces.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/ports"
	"github.com/notimetolie/nttl-cli/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL of the backend, e.g. "http://localhost:8000".
	// Required.
	BaseURL string
	// Tokens supplies the bearer token of the active session. Optional;
	// without it only public endpoints work.
	Tokens ports.TokenSource
	// HTTPClient is used for all requests. Defaults to a fresh client
	// bounded by Timeout.
	HTTPClient *http.Client
	// Timeout bounds each request when HTTPClient is nil. Defaults to 30s.
	Timeout time.Duration
	// Logger is used for structured logging. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Client talks to the backend REST API. It implements the AuthAPI,
// ModerationAPI, ContentAPI, SearchAPI, ProgressAPI and AIAPI ports.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     ports.TokenSource
	logger     zerolog.Logger
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		logger:     logger,
	}, nil
}

// do executes a request authenticated with the active session token, when
// one exists.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var token string
	if c.tokens != nil {
		token, _ = c.tokens.Token()
	}
	return c.doAs(ctx, token, method, path, body, out)
}

// doAs executes a request with an explicit bearer token; empty means
// unauthenticated. The response body is decoded into out when non-nil.
// Non-2xx responses come back as *APIError.
func (c *Client) doAs(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, raw)
		c.logger.Debug().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Str("message", apiErr.Message).Msg("request failed")
		return apiErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("api: decoding response body: %w", err)
		}
	}
	return nil
}

// get is a convenience wrapper for session-authenticated GET requests.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post is a convenience wrapper for session-authenticated POST requests.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// put is a convenience wrapper for session-authenticated PUT requests.
func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// delete is a convenience wrapper for session-authenticated DELETE requests.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// withQuery appends the encoded query to the path when any value is set.
func withQuery(path string, q url.Values) string {
	encoded := q.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

// pageQuery builds the skip/limit query used by the list endpoints. Zero
// values are omitted so the backend applies its own defaults.
func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

var (
	_ ports.AuthAPI       = (*Client)(nil)
	_ ports.ModerationAPI = (*Client)(nil)
	_ ports.ContentAPI    = (*Client)(nil)
	_ ports.SearchAPI     = (*Client)(nil)
	_ ports.ProgressAPI   = (*Client)(nil)
	_ ports.AIAPI         = (*Client)(nil)
)
