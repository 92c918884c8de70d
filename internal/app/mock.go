package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MockChatClient simulates the model transport for tests and for running
// without an API key. It answers prompts by keyword: monitoring keywords
// produce a matching tool_use block, and any turn carrying tool results is
// answered with a closing text message.
type MockChatClient struct {
	Calls int
}

func NewMockChatClient() *MockChatClient {
	return &MockChatClient{}
}

func (c *MockChatClient) Complete(ctx context.Context, system string, messages []ChatMessage, tools []ToolDefinition) (*ChatResponse, error) {
	c.Calls++

	if len(messages) == 0 {
		return textResponse("Ask me about your system."), nil
	}

	last := messages[len(messages)-1]
	if hasToolResults(last) {
		return textResponse(summarizeToolResults(last)), nil
	}

	prompt := strings.ToLower(lastText(messages))
	switch {
	case strings.Contains(prompt, "dashboard"):
		return toolUseResponse(c.Calls, "create_system_dashboard", map[string]interface{}{}), nil
	// Listing phrases first: "list background jobs" mentions both words and
	// must not launch anything.
	case strings.Contains(prompt, "job"):
		return toolUseResponse(c.Calls, "list_background_jobs", map[string]interface{}{}), nil
	case strings.Contains(prompt, "background"):
		return toolUseResponse(c.Calls, "run_background_command", map[string]interface{}{
			"command":  "sleep 60",
			"job_name": "mock-job",
		}), nil
	case strings.Contains(prompt, "cpu"):
		return toolUseResponse(c.Calls, "get_cpu_stats", map[string]interface{}{"interval": 0.1}), nil
	case strings.Contains(prompt, "memory") || strings.Contains(prompt, "ram"):
		return toolUseResponse(c.Calls, "get_memory_stats", map[string]interface{}{}), nil
	case strings.Contains(prompt, "disk"):
		return toolUseResponse(c.Calls, "get_disk_stats", map[string]interface{}{"path": "/"}), nil
	case strings.Contains(prompt, "network"):
		return toolUseResponse(c.Calls, "get_network_stats", map[string]interface{}{}), nil
	default:
		return textResponse("I can monitor CPU, memory, disk and network, run commands, and manage background jobs."), nil
	}
}

func textResponse(text string) *ChatResponse {
	return &ChatResponse{
		Content:    []ContentBlock{TextBlock(text)},
		StopReason: "end_turn",
	}
}

func toolUseResponse(call int, name string, input map[string]interface{}) *ChatResponse {
	encoded, _ := json.Marshal(input)
	return &ChatResponse{
		Content: []ContentBlock{
			TextBlock(fmt.Sprintf("Let me check that with %s.", name)),
			{
				Type:  "tool_use",
				ID:    fmt.Sprintf("toolu_mock_%d", call),
				Name:  name,
				Input: encoded,
			},
		},
		StopReason: "tool_use",
	}
}

func hasToolResults(msg ChatMessage) bool {
	for _, block := range msg.Content {
		if block.Type == "tool_result" {
			return true
		}
	}
	return false
}

func summarizeToolResults(msg ChatMessage) string {
	var b strings.Builder
	b.WriteString("Here is what I found:")
	for _, block := range msg.Content {
		if block.Type != "tool_result" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(block.Content)
	}
	return b.String()
}

func lastText(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		for _, block := range messages[i].Content {
			if block.Type == "text" {
				return block.Text
			}
		}
	}
	return ""
}
