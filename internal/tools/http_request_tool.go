package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBody = 64 * 1024

// HTTPRequestTool performs a plain HTTP request and returns status,
// headers and a size-capped body.
type HTTPRequestTool struct{}

func (h *HTTPRequestTool) Name() string {
	return "http_request"
}

func (h *HTTPRequestTool) Description() string {
	return "Perform an HTTP request and return the response"
}

func (h *HTTPRequestTool) Parameters() map[string]any {
	return map[string]any{
		"url": map[string]any{
			"type":        "string",
			"description": "Target URL, including scheme",
		},
		"method": map[string]any{
			"type":        "string",
			"description": "HTTP method (default GET)",
		},
		"body": map[string]any{
			"type":        "string",
			"description": "Request body, sent verbatim",
		},
	}
}

func (h *HTTPRequestTool) Execute(ctx context.Context, env any, args map[string]any) (any, error) {
	url, ok := args["url"].(string)
	if !ok || url == "" {
		return nil, fmt.Errorf("url parameter must be a non-empty string")
	}

	method, _ := args["method"].(string)
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	var body io.Reader
	if text, ok := args["body"].(string); ok && text != "" {
		body = strings.NewReader(text)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := http.DefaultClient
	if e, ok := env.(*Env); ok && e != nil && e.HTTPClient != nil {
		client = e.HTTPClient
	} else {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return map[string]any{
		"status":       resp.Status,
		"status_code":  resp.StatusCode,
		"content_type": resp.Header.Get("Content-Type"),
		"body":         string(data),
	}, nil
}
