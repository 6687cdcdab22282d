// Package transport sends completion requests over HTTP. It does exactly
// one attempt per call: retries, if any, belong to the caller.
package transport

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
	"github.com/rs/zerolog"

	"github.com/nerdfault/quill/internal/logging"
)

// Completions can be slow; the default timeout is deliberately generous.
const defaultTimeout = 5 * time.Minute

// Client sends one raw request payload and returns the raw response
// payload. A non-2xx reply surfaces as *StatusError.
type Client interface {
	Send(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// StatusError is a transport failure carrying the HTTP status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote completion failed: status %d: %s", e.StatusCode, e.Message)
}

// HTTPClient talks to an OpenAI-style responses endpoint.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
	truncate   int
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *HTTPClient) { c.log = log }
}

// WithTruncate sets how many bytes of each payload body reach the log.
func WithTruncate(n int) Option {
	return func(c *HTTPClient) { c.truncate = n }
}

func NewHTTPClient(baseURL, apiKey string, opts ...Option) *HTTPClient {
	client := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
		truncate:   logging.DefaultTruncate,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Send posts the payload to the responses endpoint and decodes the JSON
// reply. Any HTTP or decode failure is fatal for the call.
func (c *HTTPClient) Send(ctx context.Context, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.NewString()
	c.log.Debug().
		Str("request_id", requestID).
		Str("body", logging.Truncate(body, c.truncate)).
		Msg("completion request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Str("body", logging.Truncate(data, c.truncate)).
		Msg("completion response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}

// errorMessage pulls the error text out of a failure body when it has the
// usual {"error": {"message": ...}} shape, else returns the raw body.
func errorMessage(data []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(data))
}
