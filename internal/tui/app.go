package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hwagent/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the chat REPL: message history, an input box, and the event
// stream of the active session rendered as it arrives.
type Model struct {
	app     *app.Application
	session *app.Session

	messages []Message
	input    textarea.Model
	keys     keyMap

	loading        bool
	loadingSpinner int
	streaming      strings.Builder
	width          int
	height         int

	pendingPerm  *app.PermissionRequest
	permRequests chan app.PermissionRequest
	permReplies  chan bool
}

type Message struct {
	Role      string // user | assistant | tool | error | system
	Content   string
	Timestamp time.Time
}

func New(application *app.Application) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about your system... (enter to send)"
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetWidth(80)
	ta.SetHeight(2)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	m := &Model{
		app:          application,
		session:      application.NewSession(),
		input:        ta,
		keys:         defaultKeyMap(),
		width:        80,
		height:       24,
		permRequests: make(chan app.PermissionRequest),
		permReplies:  make(chan bool),
	}

	// The session's send goroutine blocks on this until the user answers.
	application.Gate.Ask = func(req app.PermissionRequest) bool {
		m.permRequests <- req
		return <-m.permReplies
	}

	greeting := "Hardware agent ready."
	if application.MockMode {
		greeting += " Running in mock mode (no API key configured)."
	}
	m.messages = append(m.messages, Message{Role: "system", Content: greeting + "\n\n" + app.HelpText, Timestamp: time.Now()})
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent(), m.waitForPermission())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 8)
		return m, nil

	case tea.KeyMsg:
		if m.pendingPerm != nil {
			switch msg.String() {
			case "y", "Y":
				m.pendingPerm = nil
				m.permReplies <- true
			case "n", "N", "esc":
				m.pendingPerm = nil
				m.permReplies <- false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Enter):
			value := strings.TrimSpace(m.input.Value())
			if value == "" || m.loading {
				return m, nil
			}
			m.input.Reset()
			return m.handleInput(value)
		}

	case sessionEventMsg:
		cmds = append(cmds, m.waitForEvent())
		m.applyEvent(app.SessionEvent(msg))
		if m.loading {
			cmds = append(cmds, m.spinCmd())
		}
		return m, tea.Batch(cmds...)

	case permissionMsg:
		req := app.PermissionRequest(msg)
		m.pendingPerm = &req
		return m, m.waitForPermission()

	case spinMsg:
		if m.loading {
			m.loadingSpinner++
			return m, m.spinCmd()
		}
		return m, nil

	case sendDoneMsg:
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleInput(value string) (tea.Model, tea.Cmd) {
	action, prompt := app.RewriteBuiltin(value)
	switch action {
	case app.BuiltinQuit:
		return m, tea.Quit
	case app.BuiltinHelp:
		m.messages = append(m.messages, Message{Role: "system", Content: app.HelpText, Timestamp: time.Now()})
		return m, nil
	}

	m.messages = append(m.messages, Message{Role: "user", Content: value, Timestamp: time.Now()})
	m.loading = true
	m.streaming.Reset()
	return m, tea.Batch(m.dispatch(prompt), m.spinCmd())
}

func (m *Model) applyEvent(event app.SessionEvent) {
	switch event.Kind {
	case app.EventMessageDelta:
		m.streaming.WriteString(event.Text)
	case app.EventToolStart:
		m.flushStreaming()
		m.messages = append(m.messages, Message{Role: "tool", Content: fmt.Sprintf("running %s...", event.Tool), Timestamp: time.Now()})
	case app.EventToolComplete:
		// The start line already names the tool; nothing extra to render.
	case app.EventMessageFinal:
		m.streaming.Reset()
		m.messages = append(m.messages, Message{Role: "assistant", Content: event.Text, Timestamp: time.Now()})
	case app.EventIdle:
		m.loading = false
	case app.EventError:
		m.flushStreaming()
		m.loading = false
		m.messages = append(m.messages, Message{Role: "error", Content: event.Err, Timestamp: time.Now()})
	}
}

// flushStreaming promotes partial delta text to a message so it is not lost
// when a tool call or error interrupts the stream.
func (m *Model) flushStreaming() {
	if m.streaming.Len() == 0 {
		return
	}
	m.messages = append(m.messages, Message{Role: "assistant", Content: m.streaming.String(), Timestamp: time.Now()})
	m.streaming.Reset()
}

func (m *Model) dispatch(prompt string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_ = session.Send(ctx, prompt) // outcome arrives through the event stream
		return sendDoneMsg{}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.session.Events()
	return func() tea.Msg {
		return sessionEventMsg(<-events)
	}
}

func (m *Model) waitForPermission() tea.Cmd {
	requests := m.permRequests
	return func() tea.Msg {
		return permissionMsg(<-requests)
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinMsg{}
	})
}

type sessionEventMsg app.SessionEvent

type permissionMsg app.PermissionRequest

type spinMsg struct{}

type sendDoneMsg struct{}
