// Package llm is the client for the external text-generation collaborator:
// a synchronous string-to-string chat completion endpoint. The client maps
// transport and status failures onto a fixed diagnostic taxonomy and never
// retries; retry policy belongs to the caller.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default request parameters.
const (
	defaultTimeout     = 120 * time.Second
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
)

// Generator produces a completion for a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client implements Generator against a chat-completions HTTP endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewClient creates a Client for the given endpoint and API key.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: endpoint and api key must be set", ErrGeneration)
	}
	c := &Client{
		endpoint:    endpoint,
		apiKey:      apiKey,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// chatMessage is one message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest mirrors the chat-completions request schema.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse mirrors the subset of the response schema we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message and returns the
// first choice's content.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGeneration, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrGeneration)
	}
	return parsed.Choices[0].Message.Content, nil
}

// statusError maps an HTTP status onto the diagnostic taxonomy. Every
// returned error also matches ErrGeneration.
func statusError(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %w (status %d)", ErrGeneration, ErrBadRequest, status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w (status %d)", ErrGeneration, ErrUnauthorized, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w (status %d)", ErrGeneration, ErrRateLimited, status)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w (status %d)", ErrGeneration, ErrServer, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrGeneration, status)
	}
}
