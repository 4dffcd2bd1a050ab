// Package http provides the HTTP transport used to fetch feeds.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ClientConfig represents HTTP client configuration
type ClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	UserAgent    string
	Headers      map[string]string

	// MinHostInterval spaces out requests to the same host. Zero disables it.
	MinHostInterval time.Duration
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 500 * time.Millisecond,
		UserAgent:    "feedreader/1.0",
		Headers:      make(map[string]string),
	}
}

// Client is an HTTP client with retry logic
type Client struct {
	client  *http.Client
	config  *ClientConfig
	limiter RateLimiter
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	var limiter RateLimiter = NoOpRateLimiter{}
	if config.MinHostInterval > 0 {
		limiter = NewHostRateLimiter(config.MinHostInterval)
	}

	return &Client{
		client: &http.Client{
			Timeout: config.Timeout,
		},
		config:  config,
		limiter: limiter,
	}
}

// WithToken returns a client that sends token as an OAuth2 bearer token.
// An empty token returns c unchanged.
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &Client{
		client: &http.Client{
			Timeout: c.client.Timeout,
			Transport: &oauth2.Transport{
				Source: src,
				Base:   c.client.Transport,
			},
		},
		config:  c.config,
		limiter: c.limiter,
	}
}

// GetWithContext performs an HTTP GET request with context and retry logic
func (c *Client) GetWithContext(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.doWithRetry(req)
}

// doWithRetry performs an HTTP request with exponential backoff between attempts
func (c *Client) doWithRetry(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	var lastErr error
	backoff := c.config.RetryBackoff
	maxRetries := max(c.config.MaxRetries, 0)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying request", "url", req.URL.String(), "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		if err := c.limiter.Wait(req.Context(), req.URL.Host); err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			lastErr = err
			continue
		}

		if IsRetryableStatusCode(resp.StatusCode) && attempt < maxRetries {
			if closeErr := resp.Body.Close(); closeErr != nil {
				slog.Error("Failed to close response body", "error", closeErr)
			}
			lastErr = fmt.Errorf("retryable HTTP status: %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// IsRetryableStatusCode determines if an HTTP status code should be retried
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
