package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client issues JSON requests against the church REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource attaches a bearer credential to every request that does not
// already carry an Authorization header
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout bounds every request; zero keeps the default
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL, e.g. "http://localhost:5000/api"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOptions describes one call; the zero value is a GET with no body
type RequestOptions struct {
	Method  string
	Query   url.Values
	Body    any
	Headers http.Header
}

// Request performs a JSON call and decodes the success body into T
func Request[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var out T
	err := c.Do(ctx, endpoint, opts, &out)
	return out, err
}

func Get[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodGet, Query: query})
}

func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPost, Body: body})
}

func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Request[T](ctx, c, endpoint, RequestOptions{Method: http.MethodPut, Body: body})
}

// Delete issues a DELETE and discards any response body
func Delete(ctx context.Context, c *Client, endpoint string) error {
	return c.Do(ctx, endpoint, RequestOptions{Method: http.MethodDelete}, nil)
}

// Do performs a JSON request. Caller headers override the JSON defaults.
// out may be nil when the response body is not needed.
func (c *Client) Do(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	for key, values := range opts.Headers {
		headers[http.CanonicalHeaderKey(key)] = values
	}

	return c.send(ctx, opts.Method, endpoint, opts.Query, body, headers, out)
}

func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, headers http.Header, out any) error {
	if method == "" {
		method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fullURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = headers

	requestID := uuid.NewString()
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	if c.tokens != nil && req.Header.Get("Authorization") == "" {
		token, err := c.tokens.Token()
		if err != nil {
			return &APIError{Status: http.StatusUnauthorized, Message: "no bearer credential available", Err: err}
		}
		token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"request_id", req.Header.Get("X-Request-ID"),
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return newResponseError(resp, errBody)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response body", Body: data, Err: err}
	}
	return nil
}

// transportError maps a failure without a usable response. The client's own
// deadline becomes StatusTimeout; anything else is a network error.
func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{
			Status:  StatusTimeout,
			Message: fmt.Sprintf("no response within %s", c.timeout),
			Err:     err,
		}
	}
	return &APIError{Status: StatusNetworkError, Message: err.Error(), Err: err}
}
