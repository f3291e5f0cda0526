package scheduler

import (
	"fmt"
	"time"

	"github.com/aristath/hedgeguard/internal/database"
	"github.com/aristath/hedgeguard/internal/events"
	"github.com/rs/zerolog"
)

// walWarnThresholdMB logs a warning when the WAL grows beyond this size before checkpointing
const walWarnThresholdMB = 64

// CheckWALCheckpointsJob checkpoints the WAL of each database and reports its size
type CheckWALCheckpointsJob struct {
	JobBase
	log          zerolog.Logger
	databases    []*database.DB
	eventManager EventManagerInterface
}

// NewCheckWALCheckpointsJob creates a new CheckWALCheckpointsJob. Nil databases are skipped.
func NewCheckWALCheckpointsJob(eventManager EventManagerInterface, databases ...*database.DB) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		log:          zerolog.Nop(),
		databases:    databases,
		eventManager: eventManager,
	}
}

// SetLogger sets the logger for the job
func (j *CheckWALCheckpointsJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes the check WAL checkpoints job
func (j *CheckWALCheckpointsJob) Run() error {
	start := time.Now()
	checkedCount := 0
	failed := 0
	var largestWALMB float64

	for _, db := range j.databases {
		if db == nil {
			continue
		}

		var walMB float64
		if stats, err := db.GetStats(); err == nil {
			walMB = float64(stats.WALSizeBytes) / 1024 / 1024
		}
		if walMB > largestWALMB {
			largestWALMB = walMB
		}

		if walMB > walWarnThresholdMB {
			j.log.Warn().
				Str("database", db.Name()).
				Float64("wal_size_mb", walMB).
				Msg("WAL file is large, forcing checkpoint")
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("Failed to checkpoint WAL")
			failed++
			continue
		}

		j.log.Debug().
			Str("database", db.Name()).
			Float64("wal_size_mb", walMB).
			Msg("WAL checkpoint completed")

		checkedCount++
	}

	j.log.Info().
		Int("checked", checkedCount).
		Int("failed", failed).
		Msg("WAL checkpoint check completed")

	if failed > 0 {
		return fmt.Errorf("WAL checkpoint failed for %d database(s)", failed)
	}

	if j.eventManager != nil {
		j.eventManager.EmitTyped("scheduler", &events.MaintenanceCompletedData{
			Job:        j.Name(),
			DurationMs: time.Since(start).Milliseconds(),
			WALSizeMB:  largestWALMB,
		})
	}

	return nil
}
