package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventMessageDelta EventKind = "message-delta"
	EventMessageFinal EventKind = "message-final"
	EventToolStart    EventKind = "tool-start"
	EventToolComplete EventKind = "tool-complete"
	EventIdle         EventKind = "idle"
	EventError        EventKind = "error"
)

// SessionEvent is one rendering-layer notification from a conversation turn.
type SessionEvent struct {
	Kind EventKind
	Text string
	Tool string
	Err  string
}

const systemPrompt = `You are a hardware monitoring assistant. You help users
understand and manage their system resources.

You can execute shell commands (foreground or background), track and manage
background jobs, monitor CPU, memory, disk and network usage, and render
plots and system dashboards.

Explain what you are about to do before taking action. Suggest background
execution for long-running commands. When showing metrics, give context on
whether the value is normal. Prefer a visualization when it makes data
easier to read.`

// maxToolRounds bounds one turn's tool-use loop so a misbehaving model
// cannot spin the agent forever.
const maxToolRounds = 8

// Session is one conversation: a transport, a toolbox attributed with the
// session id, and an event stream the REPL renders from.
type Session struct {
	ID      string
	client  ChatCompleter
	toolbox *Toolbox
	log     *Logger
	events  chan SessionEvent
	history []ChatMessage
}

func NewSession(client ChatCompleter, toolbox *Toolbox, logger *Logger) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		client:  client,
		toolbox: toolbox,
		log:     logger,
		events:  make(chan SessionEvent, 64),
	}
	toolbox.SessionID = s.ID
	return s
}

// Events is the stream the rendering layer consumes. Each Send produces
// deltas and tool notifications followed by a final message and idle, or an
// error event.
func (s *Session) Events() <-chan SessionEvent {
	return s.events
}

// Send runs one conversation turn: prompt in, tool loop until the model
// answers with plain text. Tool failures flow back to the model as
// structured payloads; only transport failures end the turn with an error
// event.
func (s *Session) Send(ctx context.Context, prompt string) error {
	s.history = append(s.history, ChatMessage{Role: "user", Content: []ContentBlock{TextBlock(prompt)}})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.client.Complete(ctx, systemPrompt, s.history, ToolDefinitions())
		if err != nil {
			s.emit(SessionEvent{Kind: EventError, Err: err.Error()})
			return err
		}

		s.history = append(s.history, ChatMessage{Role: "assistant", Content: resp.Content})

		var text strings.Builder
		var toolUses []ContentBlock
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				if block.Text != "" {
					text.WriteString(block.Text)
					s.emit(SessionEvent{Kind: EventMessageDelta, Text: block.Text})
				}
			case "tool_use":
				toolUses = append(toolUses, block)
			}
		}

		if len(toolUses) == 0 {
			s.emit(SessionEvent{Kind: EventMessageFinal, Text: text.String()})
			s.emit(SessionEvent{Kind: EventIdle})
			return nil
		}

		results := make([]ContentBlock, 0, len(toolUses))
		for _, use := range toolUses {
			s.emit(SessionEvent{Kind: EventToolStart, Tool: use.Name})
			payload := ExecuteTool(ctx, use.Name, use.Input, s.toolbox)
			encoded, err := json.Marshal(payload)
			if err != nil {
				encoded = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
			}
			results = append(results, ToolResultBlock(use.ID, string(encoded)))
			s.emit(SessionEvent{Kind: EventToolComplete, Tool: use.Name})
		}
		s.history = append(s.history, ChatMessage{Role: "user", Content: results})
	}

	err := fmt.Errorf("turn exceeded %d tool rounds", maxToolRounds)
	s.emit(SessionEvent{Kind: EventError, Err: err.Error()})
	return err
}

func (s *Session) emit(event SessionEvent) {
	select {
	case s.events <- event:
	default:
		// A stalled renderer must not deadlock the agent loop; drop and log.
		if s.log != nil {
			s.log.Warn("session event dropped", map[string]interface{}{
				"kind": string(event.Kind),
			})
		}
	}
}
