package di

import (
	"fmt"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/aristath/hedgeguard/internal/reliability"
	"github.com/aristath/hedgeguard/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs registers maintenance jobs with the scheduler.
// Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.Scheduler == nil {
		return nil, fmt.Errorf("scheduler not initialized")
	}

	instances := &JobInstances{}

	// WAL checkpoint
	walJob := scheduler.NewCheckWALCheckpointsJob(container.EventManager, container.CalculationsDB)
	walJob.SetLogger(log)
	if err := container.Scheduler.AddJob(cfg.MaintenanceSchedule, walJob); err != nil {
		return nil, fmt.Errorf("failed to register WAL checkpoint job: %w", err)
	}
	instances.WALCheckpoint = walJob

	// Calculation log retention
	retentionJob := calculations.NewRetentionJob(container.CalculationRepo, cfg.RetentionDays, container.EventManager)
	retentionJob.SetLogger(log)
	if err := container.Scheduler.AddJob(cfg.MaintenanceSchedule, retentionJob); err != nil {
		return nil, fmt.Errorf("failed to register retention job: %w", err)
	}
	instances.Retention = retentionJob

	// R2 backup (only when credentials are configured)
	if container.BackupService != nil {
		backupJob := reliability.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, container.EventManager)
		backupJob.SetLogger(log)
		if err := container.Scheduler.AddJob(cfg.Backup.Schedule, backupJob); err != nil {
			return nil, fmt.Errorf("failed to register backup job: %w", err)
		}
		instances.Backup = backupJob
	}

	log.Info().Int("jobs", len(container.Scheduler.Jobs())).Msg("Jobs registered")

	return instances, nil
}
