package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func init() {
	RegisterTool(ToolDefinition{
		Name:        "run_foreground_command",
		Description: "Execute a shell command in the foreground and return output",
		InputSchema: objectSchema(map[string]interface{}{
			"command": stringProp("Shell command to execute"),
			"timeout": integerProp("Timeout in seconds"),
		}, "command"),
	}, executeForegroundCommand)

	RegisterTool(ToolDefinition{
		Name:        "run_background_command",
		Description: "Start a shell command in the background and track it",
		InputSchema: objectSchema(map[string]interface{}{
			"command":  stringProp("Shell command to run in background"),
			"job_name": stringProp("Friendly name for the job"),
		}, "command", "job_name"),
	}, executeBackgroundCommand)
}

func executeForegroundCommand(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Command string `json:"command"`
		Timeout int    `json:"timeout"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Command == "" {
		return errorResult("command is required")
	}

	if outcome := tb.Gate.Check(PermissionRequest{Kind: "shell", Command: params.Command, SessionID: tb.SessionID}); outcome != PermissionApproved {
		return errorResult("command was not approved (%s)", outcome)
	}

	timeout := tb.Config.DefaultExecTimeout()
	if params.Timeout > 0 {
		timeout = time.Duration(params.Timeout) * time.Second
	}

	result, err := tb.Runner.Run(ctx, params.Command, timeout)
	if err != nil {
		if errors.Is(err, ErrCommandTimeout) {
			return errorResult("command timed out after %ds", int(timeout.Seconds()))
		}
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"stdout":      result.Stdout,
		"stderr":      result.Stderr,
		"return_code": result.ExitCode,
		"success":     result.ExitCode == 0,
	}
}

func executeBackgroundCommand(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Command string `json:"command"`
		JobName string `json:"job_name"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Command == "" || params.JobName == "" {
		return errorResult("command and job_name are required")
	}

	if outcome := tb.Gate.Check(PermissionRequest{Kind: "shell", Command: params.Command, SessionID: tb.SessionID}); outcome != PermissionApproved {
		return errorResult("command was not approved (%s)", outcome)
	}

	job, err := tb.Runner.RunBackground(params.Command, params.JobName, tb.SessionID)
	if err != nil {
		return errorResult("failed to start background job: %v", err)
	}
	return map[string]interface{}{
		"job_id":  job.JobID,
		"pid":     job.PID,
		"name":    job.Name,
		"status":  string(job.Status),
		"message": fmt.Sprintf("Background job '%s' started with PID %d", job.Name, job.PID),
	}
}
