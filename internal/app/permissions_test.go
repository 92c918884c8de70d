package app

import (
	"io"
	"testing"
)

func TestIsSafeCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"ls", "ls -la /tmp", true},
		{"df", "df -h", true},
		{"ps", "ps aux", true},
		{"plainEcho", "echo hello", true},
		{"rm", "rm -rf /tmp/x", false},
		{"unknown", "stress --cpu 4", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"safePrefixOnly", "lsblk", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSafeCommand(tc.command); got != tc.want {
				t.Errorf("IsSafeCommand(%q) = %v, want %v", tc.command, got, tc.want)
			}
		})
	}
}

func TestCommandNeedsApproval(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"rm", "rm -rf /", true},
		{"dd", "dd if=/dev/zero of=/dev/sda", true},
		{"kill", "kill -9 1234", true},
		{"pathQualified", "/bin/rm file", true},
		{"embeddedWordIsFine", "format_report.sh", false},
		{"rmdirNotRm", "rmdir /tmp/x", false},
		{"harmless", "echo hello", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CommandNeedsApproval(tc.command); got != tc.want {
				t.Errorf("CommandNeedsApproval(%q) = %v, want %v", tc.command, got, tc.want)
			}
		})
	}
}

// TestGateAutoDecisions covers the paths that never reach the asker.
func TestGateAutoDecisions(t *testing.T) {
	asked := false
	gate := NewPermissionGate(true, func(PermissionRequest) bool {
		asked = true
		return false
	}, NewLogger(io.Discard))

	if got := gate.Check(PermissionRequest{Kind: "read", Path: "/etc/hostname"}); got != PermissionApproved {
		t.Errorf("Reads should auto-approve, got %s", got)
	}
	if got := gate.Check(PermissionRequest{Kind: "shell", Command: "ls /tmp"}); got != PermissionApproved {
		t.Errorf("Safe commands should auto-approve, got %s", got)
	}
	if asked {
		t.Error("Auto-approved requests must not reach the asker")
	}
}

// TestGateInteractive verifies non-safe shell commands go through the asker
// and its answer decides the outcome.
func TestGateInteractive(t *testing.T) {
	var answer bool
	gate := NewPermissionGate(true, func(PermissionRequest) bool { return answer }, NewLogger(io.Discard))
	req := PermissionRequest{Kind: "shell", Command: "stress --cpu 4"}

	answer = true
	if got := gate.Check(req); got != PermissionApproved {
		t.Errorf("Approved prompt should approve, got %s", got)
	}
	answer = false
	if got := gate.Check(req); got != PermissionDenied {
		t.Errorf("Denied prompt should deny, got %s", got)
	}
}

// TestGateSafeModeOff verifies relaxed mode auto-approves ordinary commands
// but still prompts for destructive ones.
func TestGateSafeModeOff(t *testing.T) {
	asked := 0
	gate := NewPermissionGate(false, func(PermissionRequest) bool {
		asked++
		return true
	}, NewLogger(io.Discard))

	if got := gate.Check(PermissionRequest{Kind: "shell", Command: "stress --cpu 4"}); got != PermissionApproved {
		t.Errorf("Relaxed mode should approve ordinary commands, got %s", got)
	}
	if asked != 0 {
		t.Error("Ordinary command prompted in relaxed mode")
	}

	if got := gate.Check(PermissionRequest{Kind: "shell", Command: "rm -rf /tmp/x"}); got != PermissionApproved {
		t.Errorf("Expected approval via prompt, got %s", got)
	}
	if asked != 1 {
		t.Error("Destructive command should always prompt")
	}
}

// TestGateNoAsker verifies non-interactive runs deny everything beyond the
// allowlist.
func TestGateNoAsker(t *testing.T) {
	gate := NewPermissionGate(true, nil, NewLogger(io.Discard))
	if got := gate.Check(PermissionRequest{Kind: "shell", Command: "stress --cpu 4"}); got != PermissionDenied {
		t.Errorf("Expected denial without an asker, got %s", got)
	}
	if got := gate.Check(PermissionRequest{Kind: "shell", Command: "uptime"}); got != PermissionApproved {
		t.Errorf("Allowlisted command should still pass, got %s", got)
	}
}
