package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"psico-portal/pkg/jwt"
	"psico-portal/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorBodyLen = 300

	// IdempotencyKeyHeader carries the booking request id
	IdempotencyKeyHeader = "Idempotency-Key"
)

// APIError is a non-2xx answer from the practice API
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("practice API %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsAPIError reports whether err carries an upstream status
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// APIClient performs JSON calls against the practice API, forwarding the
// caller's bearer token found in the request context.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Logger
	metrics    *metrics.Metrics
}

func NewAPIClient(baseURL string, timeout time.Duration, log *logrus.Logger, m *metrics.Metrics) *APIClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
		metrics:    m,
	}
}

type requestOption func(*http.Request)

func withIdempotencyKey(key string) requestOption {
	return func(req *http.Request) {
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
	}
}

// doJSON sends body (if any) as JSON and decodes the response into out (if any).
// endpoint is the route template used as the metrics label.
func (c *APIClient) doJSON(ctx context.Context, method, endpoint, path string, body, out interface{}, opts ...requestOption) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := jwt.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, method, 0, time.Since(start))
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream(endpoint, method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > maxErrorBodyLen {
			msg = msg[:maxErrorBodyLen]
		}
		c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warnf("Practice API non-2xx response: %s", msg)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: msg}
	}

	if len(bytes.TrimSpace(respBody)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
