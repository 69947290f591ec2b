// Package removal provides a client for the Replicate background removal
// model. The input image travels inline as a base64 data URL; the response
// carries a URL to the processed image.
package removal

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/lepinkainen/vitrine/internal/httpx"
)

const (
	defaultBaseURL = "https://api.replicate.com/v1/predictions"
	// Pinned model version so results stay reproducible across runs.
	defaultModelVersion = "alexgenovese/remove-background-bria-2:8a67c9d842f7c06fef1b6bcf44bfdccb48b6cca3b420843e705d4a64e04f8974"
)

// Client calls the background removal API synchronously.
type Client struct {
	token        string
	baseURL      string
	modelVersion string
	httpClient   *httpx.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom predictions endpoint. Mainly for tests.
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

// WithModelVersion overrides the pinned model version.
func WithModelVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.modelVersion = version
		}
	}
}

// NewClient creates a background removal client.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		token:        token,
		baseURL:      defaultBaseURL,
		modelVersion: defaultModelVersion,
		httpClient:   httpx.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type predictionRequest struct {
	Version string            `json:"version"`
	Input   map[string]string `json:"input"`
}

type predictionResponse struct {
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  string `json:"error"`
}

// DataURL encodes image bytes as a base64 data URL with the given MIME type.
func DataURL(image []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// Remove submits the image for background removal and returns the URL of
// the processed result. The call is synchronous (Prefer: wait); a
// prediction that does not succeed is an error.
func (c *Client) Remove(ctx context.Context, image []byte, mimeType string) (string, error) {
	payload := predictionRequest{
		Version: c.modelVersion,
		Input:   map[string]string{"image": DataURL(image, mimeType)},
	}
	header := http.Header{
		"Authorization": {"Bearer " + c.token},
		"Prefer":        {"wait"},
	}

	var resp predictionResponse
	if err := c.httpClient.PostJSON(ctx, c.baseURL, payload, header, &resp); err != nil {
		return "", fmt.Errorf("background removal: %w", err)
	}

	if resp.Status != "succeeded" {
		if resp.Error != "" {
			return "", fmt.Errorf("background removal failed: %s", resp.Error)
		}
		return "", fmt.Errorf("background removal ended with status %q", resp.Status)
	}

	outputURL := firstOutputURL(resp.Output)
	if outputURL == "" {
		return "", fmt.Errorf("background removal response has no output URL")
	}
	return outputURL, nil
}

// firstOutputURL handles both output shapes the API produces: a bare URL
// string or a list of URLs.
func firstOutputURL(output any) string {
	switch v := output.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if url, ok := v[0].(string); ok {
				return url
			}
		}
	}
	return ""
}
