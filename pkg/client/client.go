// Package client is the stateless request/response wrapper around the
// drop-zone analysis service. Every call is side-effect-free beyond network
// I/O and independently retryable by the caller; no request state is shared
// between callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vel5id/rocket-drop-zone-analysis-otu-sub001/pkg/logger"
)

// apiBase is the service path prefix for every endpoint.
const apiBase = "/api"

// Client talks to the remote simulation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a service client. Timeout defaults to 30s when zero; the
// coordination layer imposes no tighter deadline of its own, failures are
// detected through transport errors.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewWithURL is a convenience wrapper around New with default timeout.
func NewWithURL(baseURL string) (*Client, error) {
	return New(Config{BaseURL: baseURL})
}

// doRequest performs an HTTP request and classifies failures: transport
// failures become *TransportError, HTTP >= 400 becomes *ServiceError carrying
// the service message verbatim when the body provides one.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	fullURL := c.baseURL + apiBase + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		defer closeBody(resp.Body)
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    serviceMessage(resp),
		}
	}

	return resp, nil
}

// serviceMessage pulls the failure reason out of an error response body,
// falling back to the HTTP status text.
func serviceMessage(resp *http.Response) string {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err == nil {
		for _, m := range []string{payload.Error, payload.Message, payload.Detail} {
			if m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(bodyBytes)); s != "" && len(s) < 200 {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

// decodeResponse decodes a JSON response into the provided value.
func decodeResponse(resp *http.Response, v interface{}) error {
	defer closeBody(resp.Body)
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Errorf("failed to close response body: %v", err)
	}
}
