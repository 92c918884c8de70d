package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatCompleter is the model transport. The real client speaks an
// Anthropic-style messages API; tests use the mock.
type ChatCompleter interface {
	Complete(ctx context.Context, system string, messages []ChatMessage, tools []ToolDefinition) (*ChatResponse, error)
}

type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

func ToolResultBlock(toolUseID, payload string) ContentBlock {
	return ContentBlock{Type: "tool_result", ToolUseID: toolUseID, Content: payload}
}

type ChatMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type ChatResponse struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
}

// ChatClient is the HTTP implementation of ChatCompleter.
type ChatClient struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	HTTP      *http.Client
}

type chatRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []ChatMessage    `json:"messages"`
	Tools     []ToolDefinition `json:"tools,omitempty"`
}

type chatAPIResponse struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewChatClient(apiKey, model, baseURL string, maxTokens int) *ChatClient {
	if model == "" {
		model = "claude-sonnet-4"
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1/messages"
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &ChatClient{
		APIKey:    apiKey,
		Model:     model,
		BaseURL:   baseURL,
		MaxTokens: maxTokens,
		HTTP:      &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ChatClient) Complete(ctx context.Context, system string, messages []ChatMessage, tools []ToolDefinition) (*ChatResponse, error) {
	if c.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	payload, err := json.Marshal(chatRequest{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		System:    system,
		Messages:  messages,
		Tools:     tools,
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-api-key", c.APIKey)
	request.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed chatAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("api returned status %d with unparseable body: %s", resp.StatusCode, truncate(string(body), 300))
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api error: status %d, response: %s", resp.StatusCode, truncate(string(body), 300))
	}

	return &ChatResponse{Content: parsed.Content, StopReason: parsed.StopReason}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
