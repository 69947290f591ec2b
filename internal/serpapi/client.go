// Package serpapi provides a client for the SerpAPI Google Images engine,
// used to discover one candidate product image per catalog entry.
package serpapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/vitrine/internal/cache"
	"github.com/lepinkainen/vitrine/internal/errors"
	"github.com/lepinkainen/vitrine/internal/httpx"
	"github.com/lepinkainen/vitrine/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://serpapi.com/search.json"
	defaultRatePerSecond = 2
)

// Client is a SerpAPI image search client. Responses are cached by query so
// repeated runs don't pay for the same search twice.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *httpx.Client
	rateLimiter *ratelimit.Limiter
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom search endpoint. Mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithHTTPClient sets a custom retrying HTTP client.
func WithHTTPClient(client *httpx.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimiter overrides the default request pacing. Pass nil to disable.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.rateLimiter = limiter
	}
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		httpClient:  httpx.New(),
		rateLimiter: ratelimit.New("SerpAPI", defaultRatePerSecond),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// searchResponse matches the google_images engine response structure.
type searchResponse struct {
	ImagesResults []struct {
		Original string `json:"original"`
	} `json:"images_results"`
}

// cachedResult wraps the found URL for response caching. An empty URL is a
// cached "no result".
type cachedResult struct {
	URL string `json:"url"`
}

// Query builds the search query for a product: the design house, the
// product name in quotes, and a white-background hint.
func Query(designHouse, product string) string {
	return fmt.Sprintf("%s %q large photo with white background", designHouse, product)
}

// FindImage searches for a large product photo and returns the first
// candidate URL. An empty result means no image was found; that is a normal
// outcome, not an error.
func (c *Client) FindImage(ctx context.Context, designHouse, product string) (string, error) {
	query := Query(designHouse, product)

	result, _, err := cache.GetOrFetch(cache.SearchTable, query, func() (*cachedResult, error) {
		return c.fetch(ctx, query)
	})
	if err != nil {
		var statusErr *httpx.StatusError
		if stderrors.As(err, &statusErr) && statusErr.Code == 429 {
			return "", errors.NewRateLimitError("SerpAPI request limit reached")
		}
		return "", err
	}

	return result.URL, nil
}

func (c *Client) fetch(ctx context.Context, query string) (*cachedResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_images")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", "1")
	// Restrict to large images.
	params.Set("tbs", "isz:l")

	var resp searchResponse
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}

	if len(resp.ImagesResults) == 0 {
		return &cachedResult{}, nil
	}
	return &cachedResult{URL: resp.ImagesResults[0].Original}, nil
}
