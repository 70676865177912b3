// Package api is the single point of outbound HTTP communication with the
// WikiSmart backend. Each exported method maps one backend capability to one
// request; there is no retry, caching or validation beyond the Go types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is where a locally started backend serves its API.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// maxErrorBody bounds how much of a non-2xx body is read to find "detail".
const maxErrorBody = 64 << 10

// Client issues requests against the backend's /api/v1 surface.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *Credentials
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (e.g. one built by NewHTTPClient).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New returns a Client rooted at baseURL (e.g. "http://localhost:8000/api/v1")
// that reads the bearer token from creds on every request. A nil creds gets a
// fresh, empty slot.
func New(baseURL string, creds *Credentials, opts ...Option) *Client {
	if creds == nil {
		creds = &Credentials{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the token slot this client reads from.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// call describes one request/response mapping.
type call struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	kind        errorKind
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends the request described by cl and decodes a 2xx JSON response into out.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return &RequestError{Op: cl.op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("api request",
		zap.String("op", cl.op),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.String("request_id", reqID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api transport error", zap.String("op", cl.op), zap.Error(err))
		return &RequestError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		re := RequestError{
			Op:         cl.op,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
		}
		c.log.Debug("api error response",
			zap.String("op", cl.op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", re.Detail),
			zap.String("request_id", reqID),
		)
		return cl.kind.wrap(re)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
