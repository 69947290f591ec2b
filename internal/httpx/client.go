// Package httpx wraps outbound HTTP calls with a bounded retry policy.
// Every network call in the pipeline (search, download, removal, upload)
// goes through one of these clients, so transient failures are handled in
// one place instead of per stage.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultTimeout     = 10 * time.Second
)

// Doer is an interface for making HTTP requests.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned for non-2xx responses. Retryable codes are retried
// before it surfaces.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client issues HTTP requests with automatic retry on transient failures:
// status codes 429/500/502/503/504 and transport-level timeouts. Attempts
// are bounded; non-retryable errors propagate immediately.
type Client struct {
	httpClient  Doer
	maxAttempts int
	baseDelay   time.Duration
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.httpClient = d
		}
	}
}

// WithTimeout replaces the underlying client with one using the given
// per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithMaxAttempts sets the total number of attempts per call.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithBaseDelay sets the backoff unit. Mainly for tests.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// New creates a retrying HTTP client.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// GetJSON fetches endpoint and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, endpoint string, target any) error {
	return c.retry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(target)
	})
}

// GetBytes fetches endpoint and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, endpoint string) ([]byte, error) {
	var body []byte
	err := c.retry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	}, func(resp *http.Response) error {
		var readErr error
		body, readErr = io.ReadAll(resp.Body)
		return readErr
	})
	return body, err
}

// PostForm posts form values to endpoint and decodes the JSON response into
// target.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, target any) error {
	encoded := form.Encode()
	return c.retry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(target)
	})
}

// PostJSON posts payload as JSON to endpoint with optional extra headers and
// decodes the JSON response into target.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any, header http.Header, target any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	return c.retry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		return req, nil
	}, func(resp *http.Response) error {
		return json.NewDecoder(resp.Body).Decode(target)
	})
}

// retry builds a fresh request per attempt so bodies never need replaying.
func (c *Client) retry(ctx context.Context, build func() (*http.Request, error), handle func(*http.Response) error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := build()
		if err != nil {
			return err
		}

		err = c.doOnce(req, handle)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == c.maxAttempts {
			return err
		}

		select {
		case <-time.After(c.backoffDelay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (c *Client) doOnce(req *http.Request, handle func(*http.Response) error) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return handle(resp)
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return retryableStatus(statusErr.Code)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10x the base unit
	delay := time.Duration(1<<uint(attempt-1)) * c.baseDelay
	if max := 10 * c.baseDelay; delay > max {
		return max
	}
	return delay
}
