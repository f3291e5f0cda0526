package calculations

import (
	"fmt"
	"time"

	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/scheduler/base"
	"github.com/rs/zerolog"
)

// RetentionJob deletes calculation records older than the configured retention window
type RetentionJob struct {
	base.JobBase
	repo          RepositoryInterface
	retentionDays int
	eventManager  *events.Manager
	now           func() time.Time
	log           zerolog.Logger
}

// NewRetentionJob creates a retention job. retentionDays <= 0 keeps everything.
func NewRetentionJob(repo RepositoryInterface, retentionDays int, eventManager *events.Manager) *RetentionJob {
	return &RetentionJob{
		repo:          repo,
		retentionDays: retentionDays,
		eventManager:  eventManager,
		now:           time.Now,
		log:           zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *RetentionJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *RetentionJob) Name() string {
	return "calculation_retention"
}

// Run executes the retention job
func (j *RetentionJob) Run() error {
	if j.retentionDays <= 0 {
		j.log.Debug().Msg("Calculation retention disabled")
		return nil
	}

	start := j.now()
	cutoff := start.AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("calculation retention failed: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Int("retention_days", j.retentionDays).
		Msg("Calculation retention completed")

	if j.eventManager != nil {
		j.eventManager.EmitTyped("calculations", &events.MaintenanceCompletedData{
			Job:            j.Name(),
			DurationMs:     j.now().Sub(start).Milliseconds(),
			RecordsDeleted: deleted,
		})
	}

	return nil
}
