package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	permBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("hwagent"))
	b.WriteString("\n\n")

	visible := m.messages
	if max := m.maxVisibleMessages(); len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	for _, msg := range visible {
		b.WriteString(renderMessage(msg, m.width))
		b.WriteString("\n")
	}

	if m.streaming.Len() > 0 {
		b.WriteString(assistantStyle.Render(wrap(m.streaming.String(), m.width-4)))
		b.WriteString("\n")
	}

	if m.loading {
		frame := spinnerFrames[m.loadingSpinner%len(spinnerFrames)]
		b.WriteString(toolStyle.Render(frame + " thinking"))
		b.WriteString("\n")
	}

	if m.pendingPerm != nil {
		b.WriteString("\n")
		b.WriteString(permBoxStyle.Render(fmt.Sprintf(
			"Allow %s?\n  %s\n\n[y] approve  [n] deny",
			m.pendingPerm.Kind, m.pendingPerm.Command)))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render("enter send · /help commands · ctrl+c quit"))
	return b.String()
}

func renderMessage(msg Message, width int) string {
	switch msg.Role {
	case "user":
		return userStyle.Render("you: ") + wrap(msg.Content, width-6)
	case "assistant":
		return assistantStyle.Render(wrap(msg.Content, width-4))
	case "tool":
		return toolStyle.Render("  ⚙ " + msg.Content)
	case "error":
		return errorStyle.Render("error: " + msg.Content)
	default:
		return systemStyle.Render(wrap(msg.Content, width-4))
	}
}

func (m *Model) maxVisibleMessages() int {
	if m.height <= 12 {
		return 4
	}
	return m.height / 3
}

// wrap soft-wraps long lines; short ones pass through untouched.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
