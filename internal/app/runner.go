package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// ErrCommandTimeout marks a foreground command that exceeded its deadline,
// as opposed to one that ran to completion with a non-zero exit code.
var ErrCommandTimeout = errors.New("command timed out")

var ErrJobNotFound = errors.New("job not found")

type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// StopResult reports the outcome of stopping a job. Status distinguishes a
// process we terminated (stopped) from one that was already gone (not_found);
// double-stops are expected, not exceptional.
type StopResult struct {
	Status  JobStatus
	PID     int
	Message string
}

// Runner launches shell commands, foreground or detached, and composes stop
// and log-tail operations on top of the Registry. It never supervises or
// restarts anything; the Registry stays the bookkeeping ledger.
type Runner struct {
	Logger   *Logger
	Registry *Registry
	LogRoot  string

	mu   sync.Mutex
	logs map[string]string // job_id -> log path, this process only
}

func NewRunner(logger *Logger, registry *Registry, logRoot string) *Runner {
	return &Runner{
		Logger:   logger,
		Registry: registry,
		LogRoot:  logRoot,
		logs:     map[string]string{},
	}
}

// Run executes a command in the foreground and waits up to timeout. A
// non-zero exit code is not an error; hitting the deadline is, and it is
// reported as ErrCommandTimeout rather than left to hang.
func (r *Runner) Run(ctx context.Context, command string, timeout time.Duration) (ExecResult, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("%w after %s", ErrCommandTimeout, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// RunBackground starts a detached shell command in its own session so it
// outlives the agent, redirects both streams to a per-job log file, and
// registers the process. The child is reaped when it exits but its record is
// only ever mutated by explicit status updates.
func (r *Runner) RunBackground(command, name, sessionID string) (JobRecord, error) {
	if r.Registry == nil {
		return JobRecord{}, errors.New("job registry is required")
	}
	if err := os.MkdirAll(r.LogRoot, 0o755); err != nil {
		return JobRecord{}, err
	}
	logPath := filepath.Join(r.LogRoot, fmt.Sprintf("%s.log", uuid.NewString()))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return JobRecord{}, err
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		_ = os.Remove(logPath)
		return JobRecord{}, err
	}

	jobID, err := r.Registry.Register(cmd.Process.Pid, name, command, sessionID)
	if err != nil {
		_ = logFile.Close()
		return JobRecord{}, err
	}

	r.mu.Lock()
	r.logs[jobID] = logPath
	r.mu.Unlock()

	// Reap only. Exit status is not written back to the ledger; liveness is
	// recomputed on demand and terminal states come from explicit updates.
	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	if r.Logger != nil {
		r.Logger.Info("background job started", map[string]interface{}{
			"job_id":  jobID,
			"pid":     cmd.Process.Pid,
			"name":    name,
			"command": command,
		})
	}

	job, _ := r.Registry.Get(jobID)
	return job, nil
}

// StopJob sends SIGTERM to a job's process. A pid that no longer exists is
// recorded as not_found and reported distinctly from "stopped by us".
func (r *Runner) StopJob(jobID string) (StopResult, error) {
	job, ok := r.Registry.Get(jobID)
	if !ok {
		return StopResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	proc, err := os.FindProcess(job.PID)
	if err == nil {
		err = proc.Signal(syscall.SIGTERM)
	}
	switch {
	case err == nil:
		if uerr := r.Registry.UpdateStatus(jobID, JobStopped); uerr != nil {
			return StopResult{}, uerr
		}
		return StopResult{
			Status:  JobStopped,
			PID:     job.PID,
			Message: fmt.Sprintf("Job %s (PID %d) stopped", jobID, job.PID),
		}, nil
	case errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH):
		if uerr := r.Registry.UpdateStatus(jobID, JobNotFound); uerr != nil {
			return StopResult{}, uerr
		}
		return StopResult{
			Status:  JobNotFound,
			PID:     job.PID,
			Message: fmt.Sprintf("Process %d not found - job %s may have already exited", job.PID, jobID),
		}, nil
	default:
		return StopResult{}, err
	}
}

// LogPath returns the log file for a job started by this process.
func (r *Runner) LogPath(jobID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.logs[jobID]
	return path, ok
}

// TailLog writes the last n lines of a job's log to out. Only jobs launched
// in this process have a known log path; after a restart the output file is
// gone from the runner's view and the caller gets an error.
func (r *Runner) TailLog(jobID string, out io.Writer, lines int) error {
	path, ok := r.LogPath(jobID)
	if !ok {
		return fmt.Errorf("no log available for job %s", jobID)
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buffer := make([]string, 0, lines)
	for scanner.Scan() {
		buffer = append(buffer, scanner.Text())
		if len(buffer) > lines {
			buffer = buffer[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for _, line := range buffer {
		_, _ = fmt.Fprintln(out, line)
	}
	return nil
}
