// Package fetch issues the outbound page requests with browser-like headers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultUserAgent mimics a desktop Chrome; several embed hosts reject obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultTimeout = 15 * time.Second
	maxBodySize    = 8 << 20
)

// browserHeaders are sent with every request unless overridden per request.
// Accept-Encoding is left to the transport so gzip is decoded transparently.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
}

// Client fetches HTML pages. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	timeout   time.Duration
	retries   int
	base      http.RoundTripper
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many extra attempts are made after a transport error
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithUserAgent overrides DefaultUserAgent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTransport replaces the underlying round tripper (tests route requests to canned pages)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// New creates a Client
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: DefaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.base == nil {
		c.base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: c.timeout,
			ForceAttemptHTTP2:     true,
		}
	}
	c.http = &http.Client{
		Timeout:   c.timeout,
		Transport: &retryTransport{base: c.base, max: c.retries},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	return c
}

// UserAgent returns the User-Agent sent upstream
func (c *Client) UserAgent() string {
	return c.userAgent
}

// RequestOption customises a single request
type RequestOption func(*http.Request)

// WithReferer sets the Referer header
func WithReferer(ref string) RequestOption {
	return func(r *http.Request) {
		if ref != "" {
			r.Header.Set("Referer", ref)
		}
	}
}

// WithHeader sets an arbitrary header
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get fetches rawURL and returns the body as a string.
// Transport failures return *Error, non-2xx answers return *StatusError.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &Error{URL: rawURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return string(body), nil
}

// retryTransport retries replayable requests after transport errors.
type retryTransport struct {
	base http.RoundTripper
	max  int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.max
	if !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// Error is a transport-level failure (DNS, TLS, timeout, reset)
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError is a non-2xx upstream answer
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s returned status %d", e.URL, e.StatusCode)
}

// IsNetwork reports whether err came from the network layer or an upstream status
func IsNetwork(err error) bool {
	var fe *Error
	var se *StatusError
	return errors.As(err, &fe) || errors.As(err, &se)
}
