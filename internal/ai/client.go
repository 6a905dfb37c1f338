// Package ai provides a chat-completions client for OpenAI-compatible APIs,
// used to polish generated documentation.
package ai

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

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

// ErrMissingAPIKey is returned when the client has no API key configured.
var ErrMissingAPIKey = errors.New("api key is not set")

const enhanceSystemPrompt = `You are a technical writer. Improve the documentation you are given:
tighten the prose, fix awkward phrasing, and keep every heading, list and
factual claim intact. Return only the improved markdown document.`

const summarizeSystemPrompt = `You summarize source changes for a project changelog.
Write two or three plain sentences covering what changed. Return only the summary.`

// Client calls an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

// Options configures a Client. Zero values fall back to package defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Usage reports token consumption for one API call.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Result carries the model output and its cost accounting.
type Result struct {
	Content   string
	Model     string
	Usage     Usage
	CostCents int64
}

// New constructs a client with defaults applied.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		BaseURL:     baseURL,
		APIKey:      opts.APIKey,
		Model:       model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Client:      &http.Client{Timeout: timeout},
	}
}

// Enhance asks the model to improve a generated document. Analysis notes,
// when present, are appended for extra grounding.
func (c *Client) Enhance(ctx context.Context, document, notes string) (*Result, error) {
	user := document
	if notes != "" {
		user = document + "\n\n---\nAnalysis notes:\n" + notes
	}
	return c.complete(ctx, enhanceSystemPrompt, user)
}

// Summarize condenses a change list into a short prose summary.
func (c *Client) Summarize(ctx context.Context, changes string) (*Result, error) {
	return c.complete(ctx, summarizeSystemPrompt, changes)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

func (c *Client) complete(ctx context.Context, system, user string) (*Result, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if ctx == nil {
		ctx = context.Background()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode completions payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completions api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode completions response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("completions response has no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, errors.New("completions response has empty content")
	}

	model := parsed.Model
	if model == "" {
		model = c.Model
	}

	return &Result{
		Content:   content,
		Model:     model,
		Usage:     parsed.Usage,
		CostCents: EstimateCostCents(model, parsed.Usage),
	}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: defaultTimeout}
	}
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = defaultTimeout
	}
	return c.Client
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read api response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("api request failed (%s): %s", resp.Status, apiErr.Error.Message)
		}

		snippet := strings.TrimSpace(string(body))
		if snippet == "" {
			snippet = resp.Status
		}
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("api request failed (%s): %s", resp.Status, snippet)
	}

	return body, nil
}
