package app

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Prober answers whether a process id is still alive. The default probe
// sends signal 0; both "no such process" and "permission denied" report
// not-running (a denied probe does not prove the process is dead, but the
// registry keeps that simplification).
type Prober func(pid int) bool

// Registry is the only mutator of the job ledger. It loads the store once at
// Open, holds the ledger in memory for its lifetime, and re-persists after
// every mutation. One instance per process; construct it at the top level and
// pass it to whatever needs it.
type Registry struct {
	mu        sync.Mutex
	store     JobStore
	jobs      map[string]JobRecord
	probe     Prober
	log       *Logger
	recovered bool
	closed    bool
}

var ErrRegistryClosed = errors.New("job registry is closed")

func OpenRegistry(path string, logger *Logger) *Registry {
	store := NewJobStore(path)
	jobs, recovered := store.Load()
	if recovered && logger != nil {
		logger.Warn("job registry file was unreadable, starting with an empty ledger", map[string]interface{}{
			"path": store.Path(),
		})
	}
	return &Registry{
		store:     store,
		jobs:      jobs,
		probe:     probeProcess,
		log:       logger,
		recovered: recovered,
	}
}

// SetProber replaces the liveness probe. Tests use this to fake the OS.
func (r *Registry) SetProber(p Prober) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p != nil {
		r.probe = p
	}
}

// Recovered reports whether Open threw away a corrupt or unreadable store.
func (r *Registry) Recovered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recovered
}

// Register creates a running JobRecord for a freshly launched process,
// persists it, and returns the new job id. Fails only on storage I/O errors.
func (r *Registry) Register(pid int, name, command, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", ErrRegistryClosed
	}

	id := r.newJobID()
	r.jobs[id] = JobRecord{
		JobID:     id,
		PID:       pid,
		Name:      name,
		Command:   command,
		SessionID: sessionID,
		Status:    JobRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := r.persist(); err != nil {
		delete(r.jobs, id)
		return "", err
	}
	return id, nil
}

func (r *Registry) Get(id string) (JobRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}

// List returns all records ordered by start time. The order is not part of
// the contract; it just keeps display output stable.
func (r *Registry) List() []JobRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := make([]JobRecord, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	for i := 1; i < len(jobs); i++ {
		for j := i; j > 0 && jobs[j].StartedAt.Before(jobs[j-1].StartedAt); j-- {
			jobs[j], jobs[j-1] = jobs[j-1], jobs[j]
		}
	}
	return jobs
}

// UpdateStatus sets the status of a known job and persists. Unknown ids are
// a no-op. The first terminal transition stamps StoppedAt; re-applying a
// terminal status later never clobbers the original stamp.
func (r *Registry) UpdateStatus(id string, status JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	job, ok := r.jobs[id]
	if !ok {
		return nil
	}
	job.Status = status
	if status.Terminal() && job.StoppedAt == nil {
		now := time.Now().UTC()
		job.StoppedAt = &now
	}
	r.jobs[id] = job
	return r.persist()
}

// Remove deletes a record and persists. The bool reports whether a deletion
// occurred; the id is never reused either way.
func (r *Registry) Remove(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrRegistryClosed
	}
	if _, ok := r.jobs[id]; !ok {
		return false, nil
	}
	delete(r.jobs, id)
	if err := r.persist(); err != nil {
		return true, err
	}
	return true, nil
}

// IsRunning probes the OS for pid liveness. The result is never cached in
// the ledger; callers use it as a transient annotation.
func (r *Registry) IsRunning(pid int) bool {
	r.mu.Lock()
	probe := r.probe
	r.mu.Unlock()
	return probe(pid)
}

// Close flushes the ledger and ends the registry lifecycle. Background
// processes themselves are deliberately left running.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.persist()
}

func (r *Registry) persist() error {
	if err := r.store.Save(r.jobs); err != nil {
		if r.log != nil {
			r.log.Error("failed to persist job registry", map[string]interface{}{
				"path":  r.store.Path(),
				"error": err.Error(),
			})
		}
		return fmt.Errorf("persist job registry: %w", err)
	}
	return nil
}

// newJobID returns a fresh job_<8 hex> handle, skipping any id already in
// the ledger. Called with r.mu held.
func (r *Registry) newJobID() string {
	for {
		u := uuid.New()
		id := "job_" + hex.EncodeToString(u[:4])
		if _, exists := r.jobs[id]; !exists {
			return id
		}
	}
}
