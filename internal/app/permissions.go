package app

import "strings"

type PermissionOutcome string

const (
	PermissionApproved PermissionOutcome = "approved"
	PermissionDenied   PermissionOutcome = "denied-interactively-by-user"
)

type PermissionRequest struct {
	Kind      string // shell | write | read
	Command   string
	Path      string
	SessionID string
}

// Asker resolves requests that cannot be auto-decided. The TUI wires this to
// an interactive prompt; tests script it.
type Asker func(PermissionRequest) bool

// Read-only commands that never need a prompt.
var safeCommands = []string{
	"ls", "pwd", "whoami", "date", "cat", "head", "tail", "echo",
	"ps", "top", "df", "free", "uname", "hostname", "uptime",
	"which", "whereis", "env", "printenv",
}

// Substrings that flag a command as destructive enough to always ask.
var dangerousCommands = []string{
	"rm", "dd", "mkfs", "chmod", "chown", "kill", "pkill",
	"shutdown", "reboot", "format", "fdisk", "parted",
}

// PermissionGate intercepts shell and file operations before they execute.
// A denied request must not run; the tool layer enforces that.
type PermissionGate struct {
	SafeMode bool
	Ask      Asker
	Logger   *Logger
}

func NewPermissionGate(safeMode bool, ask Asker, logger *Logger) *PermissionGate {
	return &PermissionGate{SafeMode: safeMode, Ask: ask, Logger: logger}
}

func (g *PermissionGate) Check(req PermissionRequest) PermissionOutcome {
	if g == nil {
		return PermissionApproved
	}

	outcome := g.decide(req)
	if g.Logger != nil {
		g.Logger.Info("permission request", map[string]interface{}{
			"kind":    req.Kind,
			"command": req.Command,
			"path":    req.Path,
			"session": req.SessionID,
			"outcome": string(outcome),
		})
	}
	return outcome
}

func (g *PermissionGate) decide(req PermissionRequest) PermissionOutcome {
	switch req.Kind {
	case "read":
		return PermissionApproved
	case "shell":
		if IsSafeCommand(req.Command) {
			return PermissionApproved
		}
		if !g.SafeMode && !CommandNeedsApproval(req.Command) {
			return PermissionApproved
		}
		return g.askUser(req)
	default:
		return g.askUser(req)
	}
}

func (g *PermissionGate) askUser(req PermissionRequest) PermissionOutcome {
	if g.Ask == nil {
		// Non-interactive runs cannot grant anything beyond the allowlist.
		return PermissionDenied
	}
	if g.Ask(req) {
		return PermissionApproved
	}
	return PermissionDenied
}

// IsSafeCommand reports whether the command's base word is on the read-only
// allowlist.
func IsSafeCommand(command string) bool {
	fields := strings.Fields(strings.TrimSpace(command))
	if len(fields) == 0 {
		return false
	}
	for _, safe := range safeCommands {
		if fields[0] == safe {
			return true
		}
	}
	return false
}

// CommandNeedsApproval flags commands containing a known-destructive word.
func CommandNeedsApproval(command string) bool {
	for _, field := range strings.Fields(strings.ToLower(command)) {
		for _, danger := range dangerousCommands {
			if field == danger || strings.HasSuffix(field, "/"+danger) {
				return true
			}
		}
	}
	return false
}
