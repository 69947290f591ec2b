// Package hosting provides a client for the imgbb image hosting API.
package hosting

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/vitrine/internal/httpx"
)

const (
	defaultUploadURL = "https://api.imgbb.com/1/upload"

	// Domain is the hosting provider's domain marker. A record whose image
	// URL contains it is considered already uploaded.
	Domain = "ibb.co"
)

// Client uploads images to imgbb.
type Client struct {
	apiKey     string
	uploadURL  string
	httpClient *httpx.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithUploadURL sets a custom upload endpoint. Mainly for tests.
func WithUploadURL(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.uploadURL = strings.TrimSuffix(endpoint, "/")
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

// NewClient creates an imgbb upload client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     apiKey,
		uploadURL:  defaultUploadURL,
		httpClient: httpx.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

// Upload sends the image base64-encoded and returns the hosted direct URL.
func (c *Client) Upload(ctx context.Context, image []byte) (string, error) {
	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("image", base64.StdEncoding.EncodeToString(image))

	var resp uploadResponse
	if err := c.httpClient.PostForm(ctx, c.uploadURL, form, &resp); err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}

	if resp.Data.URL == "" {
		return "", fmt.Errorf("image upload response has no URL")
	}
	return resp.Data.URL, nil
}

// IsHosted reports whether a URL already points at the hosting provider.
func IsHosted(imageURL string) bool {
	return strings.Contains(imageURL, Domain)
}
