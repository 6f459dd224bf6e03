// Package client is the JSON transport to the upstream records backend.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// ErrNotFound is returned when the backend answers a fetch with an empty or
// null record.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err is a 404 or an empty record from the backend.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client issues one request per call. It never retries and never caches.
type Client struct {
	rest    *rest.Client
	headers map[string]string
	log     zerolog.Logger
}

// New builds a client whose requests time out after timeout.
func New(timeout time.Duration, log zerolog.Logger) *Client {
	return NewWithHTTPClient(&http.Client{Timeout: timeout}, log)
}

// NewWithHTTPClient builds a client over an existing *http.Client.
func NewWithHTTPClient(hc *http.Client, log zerolog.Logger) *Client {
	return &Client{
		rest: &rest.Client{HTTPClient: hc},
		headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
		log: log.With().Str("component", "upstream_client").Logger(),
	}
}

// Get fetches url and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, url string, query map[string]string, out interface{}) error {
	return c.do(ctx, rest.Get, url, query, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, url string, body, out interface{}) error {
	return c.do(ctx, rest.Post, url, nil, body, out)
}

// Put sends body as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, url string, body, out interface{}) error {
	return c.do(ctx, rest.Put, url, nil, body, out)
}

// Delete removes the resource at url. A 204 or empty body is success.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.do(ctx, rest.Delete, url, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method rest.Method, url string, query map[string]string, body, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     url,
		Headers:     c.headers,
		QueryParams: query,
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		req.Body = raw
	}

	start := time.Now()
	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}

	c.log.Debug().
		Str("method", string(method)).
		Str("url", url).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Upstream request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{
			Method:     string(method),
			URL:        url,
			StatusCode: res.StatusCode,
			Body:       res.Body,
		}
	}

	if out == nil || res.StatusCode == http.StatusNoContent || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}
