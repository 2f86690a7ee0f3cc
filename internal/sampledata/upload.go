package sampledata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default client settings.
const (
	defaultTimeout = 30 * time.Second
)

// Client uploads generated datasets to a running service and reads back
// a few views to confirm the round trip.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Upload posts the CSV bytes as dataset name and returns the record
// count the service reports.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (int, error) {
	url := fmt.Sprintf("%s/datasets/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("upload rejected: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	var parsed struct {
		Records int `json:"records"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode upload response: %w", err)
	}
	return parsed.Records, nil
}

// Entities fetches the dataset's entity list.
func (c *Client) Entities(ctx context.Context, name string) ([]string, error) {
	url := fmt.Sprintf("%s/datasets/%s/entities", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build entities request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch entities: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entities request failed: status %d", resp.StatusCode)
	}
	var entities []string
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	return entities, nil
}
