package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/scheduler/base"
	"github.com/aristath/hedgeguard/internal/utils"
	"github.com/rs/zerolog"
)

// backupTimeout bounds a single backup-and-rotate run
const backupTimeout = 10 * time.Minute

// BackupJob uploads a backup to R2 and rotates old ones
type BackupJob struct {
	base.JobBase
	service       *R2BackupService
	retentionDays int
	eventManager  *events.Manager
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(service *R2BackupService, retentionDays int, eventManager *events.Manager) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
		eventManager:  eventManager,
		log:           zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *BackupJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "r2_backup"
}

// Run executes the backup job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	stop := utils.OperationTimer(j.Name(), j.log)

	backup, err := j.service.CreateAndUploadBackup(ctx)
	if err != nil {
		return fmt.Errorf("r2 backup failed: %w", err)
	}

	// Rotation failures don't invalidate the upload that just succeeded
	rotated, err := j.service.RotateOldBackups(ctx, j.retentionDays)
	if err != nil {
		j.log.Warn().Err(err).Msg("R2 backup rotation failed")
	}

	duration := stop()

	if j.eventManager != nil {
		j.eventManager.EmitTyped("reliability", &events.BackupCompletedData{
			Key:        backup.Filename,
			SizeBytes:  backup.SizeBytes,
			DurationMs: duration.Milliseconds(),
			Rotated:    rotated,
		})
	}

	return nil
}
