// Package api implements the HTTP transport for the Produtos Manager API:
// JSON verbs, multipart uploads, bearer-token injection, and uniform error
// normalization. It is the single point of outbound communication; the state
// containers never touch net/http directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/amleal/produtos-manager/internal/logging"
)

// DefaultTimeout is applied per request when the caller's context carries no
// deadline of its own.
const DefaultTimeout = 30 * time.Second

// TokenSource yields the current bearer token, or "" when none is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Form is a pre-built multipart body. ContentType carries the boundary and is
// the only content type the transport sets on uploads.
type Form struct {
	ContentType string
	Body        io.Reader
}

// Client talks to the API at a fixed base URL. Paths passed to the verb
// methods are concatenated verbatim to that base URL.
//
// The client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
	timeout time.Duration
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient substitutes the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit throttles outbound requests to rps per second. Zero or
// negative disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient builds a Client. tokens may be nil, in which case no request ever
// carries an Authorization header. logger may be nil.
func NewClient(baseURL string, tokens TokenSource, logger logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
		log:     logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, out)
}

// Upload POSTs a multipart form (product creation with thumbnail).
func (c *Client) Upload(ctx context.Context, path string, form *Form, out any) error {
	return c.do(ctx, http.MethodPost, path, form.ContentType, form.Body, out)
}

// UploadPatch PATCHes a multipart form (thumbnail replacement).
func (c *Client) UploadPatch(ctx context.Context, path string, form *Form, out any) error {
	return c.do(ctx, http.MethodPatch, path, form.ContentType, form.Body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var (
		r           io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		r = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, r, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(ctx, req, path)

	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	c.log.Debug(ctx, "http request", "id", reqID, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "http transport error", "id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug(ctx, "http response",
		"id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	return decode(resp.Header.Get("Content-Type"), data, out)
}

// authorize attaches the bearer token unless the path is an authentication
// route. A failing token source is logged and treated as "no token".
func (c *Client) authorize(ctx context.Context, req *http.Request, path string) {
	if c.tokens == nil || IsAuthRoute(path) {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "token lookup failed", "error", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// errorMessage extracts the "message" field from a JSON error body, falling
// back to the HTTP reason phrase.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP error: %d", status)
}

// decode fills out from the response body: JSON bodies are unmarshalled,
// anything else is handed over as raw text when out is a *string.
func decode(contentType string, data []byte, out any) error {
	if out == nil {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	if sp, ok := out.(*string); ok {
		*sp = string(data)
	}
	return nil
}
