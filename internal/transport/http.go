package transport

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/podlink/internal/infra/buildinfo"
)

// DefaultTimeout is the request timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrNoBaseURL is returned when a relative path is requested while neither a
// base URL nor a fallback origin is configured.
var ErrNoBaseURL = errors.New("transport: no base URL configured")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("[%s] %s", e.Code, e.Message)
		}
		return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// NotFound reports whether the server answered 404.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client issues requests against a process-wide, swappable base URL.
// Absolute URLs bypass the base.
type Client struct {
	mu             sync.RWMutex
	baseURL        string
	fallbackOrigin string

	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTLSConfig sets the TLS client configuration, e.g. to trust a private
// certificate authority.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg
		c.client.Transport = tr
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithFallbackOrigin sets the origin relative paths resolve against while no
// base URL is configured.
func WithFallbackOrigin(origin string) Option {
	return func(c *Client) {
		c.fallbackOrigin = strings.TrimRight(origin, "/")
	}
}

// New creates a new Client without a base URL.
func New(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "podlink/" + buildinfo.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBaseURL sets the prefix for relative request paths.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = baseURL
}

// ClearBaseURL removes the prefix; relative paths then go to the fallback
// origin.
func (c *Client) ClearBaseURL() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = ""
}

// BaseURL returns the current base URL, empty when cleared.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// URL returns the address a request for path would be sent to.
func (c *Client) URL(path string) (string, error) {
	if isAbsolute(path) {
		return path, nil
	}

	c.mu.RLock()
	base := c.baseURL
	c.mu.RUnlock()

	if base == "" {
		base = c.fallbackOrigin
	}
	if base == "" {
		return "", fmt.Errorf("%w: %s", ErrNoBaseURL, path)
	}
	return combine(base, path), nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	target, err := c.URL(path)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	return c.client.Do(req)
}

// GetJSON performs a GET request and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, path string, target any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return ParseResponse(resp, target)
}

// ParseResponse decodes a JSON response body into target. Non-2xx responses
// become *StatusError.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		if resp.Request != nil && resp.Request.URL != nil {
			statusErr.URL = resp.Request.URL.String()
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			statusErr.Code = errResp.Code
			statusErr.Message = errResp.Message
			if statusErr.Message == "" {
				statusErr.Message = errResp.Detail
			}
		}
		return statusErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// combine joins base and path with exactly one slash.
func combine(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
