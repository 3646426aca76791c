// Package outbound is the JSON-over-HTTP client shared by the workout and
// postal-code integrations.
//
// Every call is bounded by the client timeout and the request context, goes
// through an optional rate limiter, and is never retried. Any transport
// failure, non-2xx status or body that is not valid JSON comes back as an
// apperr.KindDependency error.
package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/metrics"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to one external service.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit allows at most rps requests per second with the given burst.
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

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a Client for the service reachable at baseURL. name is used in
// error messages and metric labels.
func New(name, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the service name the client was created with.
func (c *Client) Name() string { return c.name }

// Do sends a request and returns the response body, which is guaranteed to
// be valid JSON. body, when not nil, is encoded as the JSON request body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	t0 := time.Now()
	raw, outcome, err := c.do(ctx, method, path, body)
	metrics.ObserveDependency(c.name, outcome, time.Since(t0))
	return raw, err
}

// DecodeJSON is Do followed by decoding the body into out.
func (c *Client) DecodeJSON(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Dependency(fmt.Sprintf("invalid response from %s", c.name), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "rate_limited", apperr.Dependency(fmt.Sprintf("%s request not sent", c.name), err)
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, "request", apperr.Dependency(fmt.Sprintf("could not build %s request", c.name), err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "transport", apperr.Dependency(fmt.Sprintf("%s request failed", c.name), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "transport", apperr.Dependency(fmt.Sprintf("%s request failed", c.name), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "status", apperr.Dependency(
			fmt.Sprintf("%s returned %s", c.name, resp.Status),
			errors.New("unexpected status: "+resp.Status))
	}

	if !json.Valid(raw) {
		return nil, "decode", apperr.Dependency(
			fmt.Sprintf("invalid response from %s", c.name),
			errors.New("response body is not valid JSON"))
	}

	return json.RawMessage(raw), "ok", nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
