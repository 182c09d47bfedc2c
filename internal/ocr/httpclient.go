package ocr

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
)

// Client extracts LaTeX from an image.
type Client interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error)
	Healthy(ctx context.Context) bool
}

// ErrUnavailable is returned when no OCR backend is configured.
var ErrUnavailable = errors.New("ocr: backend unavailable")

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to a MixTeX inference service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// NewHTTPClient builds a client for the OCR service at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract posts the image to the inference endpoint and classifies the
// cleaned output.
func (c *HTTPClient) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	if c.baseURL == "" {
		return nil, ErrUnavailable
	}
	if req.ImageData == "" {
		return nil, fmt.Errorf("ocr: no image_data provided")
	}
	level := NormalizeLevel(string(req.PreprocessingLevel))

	payload, err := json.Marshal(struct {
		ImageData          string `json:"image_data"`
		PreprocessingLevel string `json:"preprocessing_level"`
	}{
		ImageData:          StripDataURL(req.ImageData),
		PreprocessingLevel: string(level),
	})
	if err != nil {
		return nil, fmt.Errorf("ocr: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/infer", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ocr: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ocr: infer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ocr: infer: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Latex string `json:"latex"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ocr: decode response: %w", err)
	}

	result := Classify(CleanLaTeX(out.Latex), level)
	return &result, nil
}

// Healthy probes the service health endpoint.
func (c *HTTPClient) Healthy(ctx context.Context) bool {
	if c.baseURL == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
