package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const DefaultRegistryFile = ".job_registry.json"

// JobStore serializes the full ledger to a single JSON file. Writes are not
// atomic: a crash mid-write can corrupt the file, and Load answers that by
// resetting to an empty ledger. There is no cross-process locking either; the
// store assumes a single writer.
type JobStore struct {
	path string
}

func NewJobStore(path string) JobStore {
	if path == "" {
		path = DefaultRegistryFile
	}
	return JobStore{path: path}
}

func (s JobStore) Path() string {
	return s.path
}

// Load reads the ledger from disk. A missing file is an empty ledger; an
// unreadable or unparseable file is also an empty ledger, with recovered set
// so the caller can tell "no jobs yet" from "state was thrown away".
func (s JobStore) Load() (jobs map[string]JobRecord, recovered bool) {
	jobs = map[string]JobRecord{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return jobs, false
		}
		return map[string]JobRecord{}, true
	}
	if len(data) == 0 {
		return jobs, false
	}
	if err := json.Unmarshal(data, &jobs); err != nil {
		return map[string]JobRecord{}, true
	}
	return jobs, false
}

// Save overwrites the file with the full serialized ledger, indented for
// human inspection. I/O errors propagate to the caller.
func (s JobStore) Save(jobs map[string]JobRecord) error {
	payload, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, payload, 0o644)
}
