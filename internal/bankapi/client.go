// File: internal/bankapi/client.go

// Package bankapi is a typed client for the bank's transaction query
// endpoints. The external API is inconsistent across deployments: the same
// data may arrive under different field names, with numbers encoded as
// strings, or the endpoint may be missing entirely. Everything is normalized
// into one canonical result shape at this boundary so callers never branch
// on what the wire actually carried.
package bankapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client issues queries against the bank's REST surface. Requests are rate
// limited so corroboration lookups from concurrent scenarios do not hammer
// the shared demo deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps outbound request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient builds a client against the given API base URL, e.g.
// "https://parabank.parasoft.com/parabank/services/bank".
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		logger:     logger.Named("bankapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET against a relative endpoint. The caller
// owns the response body.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	full := c.baseURL + endpoint
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	return resp, nil
}

// decodeJSON validates the 200-response contract and decodes the body into
// out. A 200 with a non-JSON content-type or an undecodable body is an
// *InvalidResponseError.
func (c *Client) decodeJSON(resp *http.Response, endpoint string, out any) error {
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return &InvalidResponseError{
			Endpoint:    endpoint,
			ContentType: contentType,
			Reason:      "expected a JSON content-type",
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &InvalidResponseError{
			Endpoint:    endpoint,
			ContentType: contentType,
			Reason:      fmt.Sprintf("body does not decode: %v", err),
		}
	}
	return nil
}
