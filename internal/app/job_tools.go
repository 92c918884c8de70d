package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func init() {
	jobIDSchema := objectSchema(map[string]interface{}{
		"job_id": stringProp("The job ID to operate on"),
	}, "job_id")

	RegisterTool(ToolDefinition{
		Name:        "list_background_jobs",
		Description: "List all background jobs and their status",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, executeListJobs)

	RegisterTool(ToolDefinition{
		Name:        "get_job_status",
		Description: "Get detailed status of a specific background job",
		InputSchema: jobIDSchema,
	}, executeJobStatus)

	RegisterTool(ToolDefinition{
		Name:        "stop_background_job",
		Description: "Stop/kill a background job by its ID",
		InputSchema: jobIDSchema,
	}, executeStopJob)

	RegisterTool(ToolDefinition{
		Name:        "remove_job",
		Description: "Remove a job from the registry (cleanup)",
		InputSchema: jobIDSchema,
	}, executeRemoveJob)

	RegisterTool(ToolDefinition{
		Name:        "tail_job_log",
		Description: "Show the last lines of a background job's captured output",
		InputSchema: objectSchema(map[string]interface{}{
			"job_id": stringProp("The job ID to read output from"),
			"lines":  integerProp("Number of trailing lines to return"),
		}, "job_id"),
	}, executeTailJobLog)
}

// jobView is a JobRecord plus the transient is_running annotation. The
// annotation is recomputed per call and never written back to the ledger.
func jobView(job JobRecord, running bool) map[string]interface{} {
	view := map[string]interface{}{
		"job_id":     job.JobID,
		"pid":        job.PID,
		"name":       job.Name,
		"command":    job.Command,
		"session_id": job.SessionID,
		"status":     string(job.Status),
		"started_at": job.StartedAt.Format(time.RFC3339),
		"is_running": running,
	}
	if job.StoppedAt != nil {
		view["stopped_at"] = job.StoppedAt.Format(time.RFC3339)
	}
	return view
}

func executeListJobs(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	jobs := tb.Registry.List()
	views := make([]map[string]interface{}, 0, len(jobs))
	running := 0
	for _, job := range jobs {
		alive := tb.Registry.IsRunning(job.PID)
		if alive {
			running++
		}
		views = append(views, jobView(job, alive))
	}
	return map[string]interface{}{
		"jobs":    views,
		"total":   len(jobs),
		"running": running,
	}
}

func executeJobStatus(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	job, ok := tb.Registry.Get(params.JobID)
	if !ok {
		return errorResult("Job %s not found", params.JobID)
	}
	return jobView(job, tb.Registry.IsRunning(job.PID))
}

func executeStopJob(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}

	result, err := tb.Runner.StopJob(params.JobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return errorResult("Job %s not found", params.JobID)
		}
		return errorResult("%v", err)
	}
	if result.Status == JobNotFound {
		return map[string]interface{}{
			"status": string(JobNotFound),
			"error":  "Process not found - may have already exited",
		}
	}
	return map[string]interface{}{
		"success": true,
		"status":  string(result.Status),
		"message": result.Message,
	}
}

func executeRemoveJob(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	removed, err := tb.Registry.Remove(params.JobID)
	if err != nil {
		return errorResult("%v", err)
	}
	message := "Job not found"
	if removed {
		message = fmt.Sprintf("Job %s removed", params.JobID)
	}
	return map[string]interface{}{
		"success": removed,
		"message": message,
	}
}

func executeTailJobLog(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		JobID string `json:"job_id"`
		Lines int    `json:"lines"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Lines <= 0 {
		params.Lines = 20
	}
	if _, ok := tb.Registry.Get(params.JobID); !ok {
		return errorResult("Job %s not found", params.JobID)
	}

	var buf bytes.Buffer
	if err := tb.Runner.TailLog(params.JobID, &buf, params.Lines); err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"job_id": params.JobID,
		"lines":  params.Lines,
		"output": buf.String(),
	}
}
