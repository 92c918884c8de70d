package app

import (
	"strings"
	"time"
)

type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobStopped   JobStatus = "stopped"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobNotFound  JobStatus = "not_found"
)

// Terminal reports whether no further transition is expected from the status.
func (s JobStatus) Terminal() bool {
	return s == JobStopped || s == JobCompleted || s == JobFailed
}

func ParseJobStatus(value string) (JobStatus, bool) {
	switch JobStatus(strings.ToLower(strings.TrimSpace(value))) {
	case JobRunning:
		return JobRunning, true
	case JobStopped:
		return JobStopped, true
	case JobCompleted:
		return JobCompleted, true
	case JobFailed:
		return JobFailed, true
	case JobNotFound:
		return JobNotFound, true
	default:
		return JobStatus(""), false
	}
}

// JobRecord is one entry in the background job ledger. StartedAt is fixed at
// registration; StoppedAt is stamped once, on the first terminal transition.
type JobRecord struct {
	JobID     string     `json:"job_id"`
	PID       int        `json:"pid"`
	Name      string     `json:"name"`
	Command   string     `json:"command"`
	SessionID string     `json:"session_id"`
	Status    JobStatus  `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}
