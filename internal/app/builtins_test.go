package app

import (
	"strings"
	"testing"
)

func TestRewriteBuiltin(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAction BuiltinAction
		wantPrompt string
	}{
		{"help", "help", BuiltinHelp, ""},
		{"slashHelp", "/help", BuiltinHelp, ""},
		{"exit", "exit", BuiltinQuit, ""},
		{"quit", "quit", BuiltinQuit, ""},
		{"upperQuit", "QUIT", BuiltinQuit, ""},
		{"jobs", "jobs", BuiltinPrompt, "List all background jobs and their status"},
		{"dashboard", "/dashboard", BuiltinPrompt, "Generate a system resource dashboard and save it"},
		{"plainPrompt", "how is my cpu doing?", BuiltinNone, "how is my cpu doing?"},
		{"padded", "  exit  ", BuiltinQuit, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, prompt := RewriteBuiltin(tc.input)
			if action != tc.wantAction {
				t.Errorf("RewriteBuiltin(%q) action = %v, want %v", tc.input, action, tc.wantAction)
			}
			if prompt != tc.wantPrompt {
				t.Errorf("RewriteBuiltin(%q) prompt = %q, want %q", tc.input, prompt, tc.wantPrompt)
			}
		})
	}
}

func TestHelpTextMentionsBuiltins(t *testing.T) {
	for _, word := range []string{"help", "jobs", "dashboard", "exit"} {
		if !strings.Contains(HelpText, word) {
			t.Errorf("Help text missing %q", word)
		}
	}
}
