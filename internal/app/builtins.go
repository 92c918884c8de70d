package app

import "strings"

type BuiltinAction int

const (
	BuiltinNone BuiltinAction = iota
	BuiltinHelp
	BuiltinQuit
	BuiltinPrompt
)

// RewriteBuiltin maps REPL built-in commands (bare or slash-prefixed) to a
// local action or a natural-language prompt, before anything reaches the
// model.
func RewriteBuiltin(input string) (BuiltinAction, string) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(input)), "/") {
	case "help":
		return BuiltinHelp, ""
	case "exit", "quit":
		return BuiltinQuit, ""
	case "jobs":
		return BuiltinPrompt, "List all background jobs and their status"
	case "dashboard":
		return BuiltinPrompt, "Generate a system resource dashboard and save it"
	default:
		return BuiltinNone, input
	}
}

const HelpText = `Commands:
  help          show this help message
  jobs          list background jobs
  dashboard     generate a system dashboard
  exit, quit    leave the agent

Example prompts:
  "Show me current CPU and memory usage"
  "Run stress --cpu 2 in the background and track it"
  "Create a plot of the top 5 processes by memory"
  "Monitor disk usage on /home"
  "What background jobs are running?"`
