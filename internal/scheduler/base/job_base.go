// Package base provides base implementation for scheduler jobs.
package base

import (
	"sync"
	"time"
)

// RunStatus summarises the run history of a job
type RunStatus struct {
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// JobBase tracks run history for a job.
// Jobs embed this so the scheduler can report their status.
type JobBase struct {
	mu     sync.Mutex
	status RunStatus
}

// RecordRun stores the outcome of a run
func (j *JobBase) RecordRun(at time.Time, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.status.Runs++
	j.status.LastRun = at
	if err != nil {
		j.status.Failures++
		j.status.LastError = err.Error()
	} else {
		j.status.LastError = ""
	}
}

// RunStatus returns a copy of the job's run history
func (j *JobBase) RunStatus() RunStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}
