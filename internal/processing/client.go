package processing

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

	"docman/internal/domain"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 512

// Options configures the HTTP client for the external ingestion backend.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client submits ingestion payloads to the processing backend over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, errors.New("processing: base url is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
	}, nil
}

// Submit posts the payload and returns the raw response body on success.
// Failures are classified so the resulting message is meaningful when
// recorded on a job: timeout, connection error, or non-2xx response.
func (c *Client) Submit(ctx context.Context, payload domain.IngestPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("processing: encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/ingest", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("processing: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("processing request timed out after %s", c.timeout)
		}
		return nil, fmt.Errorf("processing backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("processing backend returned %d: %s", resp.StatusCode, truncate(respBody))
	}
	if readErr != nil {
		return nil, fmt.Errorf("processing: read response: %w", readErr)
	}
	return respBody, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}

var _ domain.ProcessingClient = (*Client)(nil)
