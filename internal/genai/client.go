package genai

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

const defaultTimeout = 60 * time.Second

// Client calls an OpenAI-compatible chat completions endpoint for text and
// structured generation
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a generation client. baseURL is the API root without a
// trailing slash (e.g. "https://api.openai.com").
func NewClient(baseURL, apiKey, model string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("genai: base url is required")
	}
	if model == "" {
		return nil, errors.New("genai: model is required")
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// NewClientWithHTTPClient is intended for tests; it avoids network access by
// using a custom http.Client (typically with a fake RoundTripper).
func NewClientWithHTTPClient(baseURL, apiKey, model string, httpClient *http.Client) (*Client, error) {
	c, err := NewClient(baseURL, apiKey, model)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

// Options tune a single generation call
type Options struct {
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	// JSONMode asks the server for a JSON-object response where supported
	JSONMode bool
}

// APIError represents a non-success response from the generation service
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation api: status %d: %s", e.StatusCode, e.Body)
}

// ParseError means the model's output could not be parsed as the expected
// structured data, even after stripping a Markdown code fence
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generation response is not valid structured data: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateText sends a prompt and returns the raw completion text
func (c *Client) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		reqBody.ResponseFormat = map[string]any{"type": "json_object"}
	}

	var parsed chatCompletionResponse
	if err := c.postJSON(ctx, "/v1/chat/completions", reqBody, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("generation api: empty choices in response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// GenerateStructured sends a prompt and parses the completion as JSON into
// out. If the first parse fails and the payload is wrapped in a Markdown
// code fence, the fence is stripped and parsing is retried once before a
// ParseError is returned.
func (c *Client) GenerateStructured(ctx context.Context, prompt string, out any, opts Options) error {
	opts.JSONMode = true

	text, err := c.GenerateText(ctx, prompt, opts)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	stripped := stripCodeFence(text)
	if err := json.Unmarshal([]byte(stripped), out); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}

// stripCodeFence removes a leading ```lang line and trailing ``` from a
// fenced block; unfenced input is returned trimmed
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// postJSON performs a POST request and decodes the JSON response
func (c *Client) postJSON(ctx context.Context, path string, reqBody, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
