// Package httpx is the one retrying HTTP transport shared by every
// remote client. Keeping the retry policy in a single place avoids the
// usual drift between call sites.
package httpx

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math"
	mathrand "math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// Retry policy: 3 attempts total, exponential backoff base 1s doubling
// up to 8s with ±25% jitter, honoring Retry-After when the server sends
// one.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 8 * time.Second
	jitterFactor       = 0.5 // ±25%
)

// Client wraps *http.Client with the shared retry policy.
type Client struct {
	HTTP        *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// New returns a Client with the default policy.
func New() *Client {
	return &Client{
		HTTP:        &http.Client{},
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// retryableStatus reports whether a response status is worth retrying.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do executes the request under the retry policy. Retryable statuses and
// network errors are retried up to MaxAttempts; the final attempt's
// response or error is returned as-is (callers decide how to surface a
// lingering 5xx). A per-call correlation id is attached to every attempt.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

	var lastResp *http.Response
	var lastErr error
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		r := req.Clone(ctx)
		r.Header.Set("X-Request-Id", requestID)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := c.HTTP.Do(r)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		lastResp, lastErr = resp, err
		if attempt == c.MaxAttempts {
			break
		}

		delay := c.backoff(attempt)
		if resp != nil {
			if ra := parseRetryAfter(resp.Header.Get("Retry-After")); ra > 0 {
				delay = ra
			}
			// Drain so the connection can be reused before the next attempt.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return lastResp, lastErr
}

// backoff computes the exponential delay with jitter for an attempt.
func (c *Client) backoff(attempt int) time.Duration {
	delay := float64(c.BaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}
	delay *= 1.0 + (mathrand.Float64()-0.5)*jitterFactor
	return time.Duration(delay)
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// StatusError is a non-2xx response after the retry policy ran its
// course. The body is kept so callers can extract provider-specific
// detail (quota wait hints in particular).
type StatusError struct {
	Status int
	Body   []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned HTTP %d", e.Status)
}

// DoJSON sends an optional JSON body and decodes a JSON response into
// out (skipped when out is nil). Non-2xx responses become *StatusError.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: data}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
