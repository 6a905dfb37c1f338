package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientEnhance(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := chatResponse{
			Model: "gpt-4o-mini",
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "# Improved\n"}},
			},
			Usage: Usage{PromptTokens: 1200, CompletionTokens: 300, TotalTokens: 1500},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(Options{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		Model:     "gpt-4o-mini",
		MaxTokens: 512,
	})

	result, err := client.Enhance(context.Background(), "# Draft", "3 endpoints found")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}

	if result.Content != "# Improved" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Usage.TotalTokens != 1500 {
		t.Errorf("total tokens = %d", result.Usage.TotalTokens)
	}
	// 1200 in + 300 out on mini rates is well under a cent, rounded up.
	if result.CostCents != 1 {
		t.Errorf("cost cents = %d", result.CostCents)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", captured.Model)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("request max tokens = %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" {
		t.Errorf("first message role = %q", captured.Messages[0].Role)
	}
	if !strings.Contains(captured.Messages[1].Content, "# Draft") {
		t.Errorf("user message missing document: %q", captured.Messages[1].Content)
	}
	if !strings.Contains(captured.Messages[1].Content, "3 endpoints found") {
		t.Errorf("user message missing notes: %q", captured.Messages[1].Content)
	}
}

func TestClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "changelog") {
			t.Errorf("expected summarize system prompt, got %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []chatChoice{
				{Message: chatMessage{Role: "assistant", Content: "Two files changed."}},
			},
			Usage: Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
		})
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, APIKey: "test-key"})

	result, err := client.Summarize(context.Background(), "M main.go\nA docs/api.md")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if result.Content != "Two files changed." {
		t.Errorf("content = %q", result.Content)
	}
	// Response carried no model name; the configured one is used.
	if result.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", result.Model)
	}
}

func TestClientMissingAPIKey(t *testing.T) {
	client := New(Options{})
	if _, err := client.Enhance(context.Background(), "doc", ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, APIKey: "test-key"})

	_, err := client.Enhance(context.Background(), "doc", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Rate limit reached") {
		t.Errorf("expected API message in error, got: %v", err)
	}
}

func TestClientEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, APIKey: "test-key"})

	if _, err := client.Enhance(context.Background(), "doc", ""); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewDefaults(t *testing.T) {
	client := New(Options{BaseURL: "https://example.com/v1/"})

	if client.BaseURL != "https://example.com/v1" {
		t.Errorf("expected trailing slash trimmed, got %q", client.BaseURL)
	}
	if client.Model != "gpt-4o-mini" {
		t.Errorf("expected default model, got %q", client.Model)
	}
	if client.Client.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", client.Client.Timeout)
	}
}
