// Package gateway is the typed REST client for the storefront backend.
// It owns transport concerns (auth header injection, request IDs, error
// mapping, circuit breaking); callers see Go types and *APIError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// APIError carries the HTTP status and a human-readable message for any
// non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (status %d)", e.Message, e.Status)
}

// TokenSource supplies the bearer token for authenticated calls. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client calls the storefront backend. All failures come back as a
// single error per call; nothing is retried here.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	log      *zap.Logger
	breaker  *gobreaker.CircuitBreaker[[]byte]
	inFlight singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx responses are the caller's problem, not backend trouble:
		// they must not trip the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := err.(*APIError)
			return ok && apiErr.Status < http.StatusInternalServerError
		},
	})
	return c
}

// noAuth marks calls that go out before a session exists.
const (
	withAuth = false
	noAuth   = true
)

// do issues one request and decodes the response body into out when out
// is non-nil. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, skipAuth bool) error {
	raw, err := c.doRaw(ctx, method, path, body, skipAuth)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw is do without response decoding; cart fetches need the raw body
// for shape normalization.
func (c *Client) doRaw(ctx context.Context, method, path string, body any, skipAuth bool) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if !skipAuth {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
		}
		return data, nil
	})
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	return raw, nil
}

// errorMessage extracts the most useful message from an error body: a
// JSON {message} or {error} field, else the raw text, else the status.
func errorMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprintf("HTTP %d", status)
}
