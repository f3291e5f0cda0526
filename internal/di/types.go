// Package di provides dependency injection type definitions.
//
// Container holds every service instance and is handed to the HTTP server.
package di

import (
	"github.com/aristath/hedgeguard/internal/database"
	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/aristath/hedgeguard/internal/modules/hedging"
	"github.com/aristath/hedgeguard/internal/modules/risk"
	"github.com/aristath/hedgeguard/internal/reliability"
	"github.com/aristath/hedgeguard/internal/scheduler"
)

// Container holds all dependencies for the application
type Container struct {
	// Databases
	CalculationsDB *database.DB // calculations.db - audit log of served calculations

	// Repositories
	CalculationRepo *calculations.Repository

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Services
	Recorder       *calculations.Recorder
	RiskService    *risk.Service
	HedgingService *hedging.Service
	BackupService  *reliability.R2BackupService // nil when R2 credentials are absent

	Scheduler *scheduler.Scheduler
}

// JobInstances holds registered jobs for manual triggering
type JobInstances struct {
	WALCheckpoint *scheduler.CheckWALCheckpointsJob
	Retention     *calculations.RetentionJob
	Backup        *reliability.BackupJob // nil when backups are disabled
}

// Close releases container resources. Safe to call on a partially built container.
func (c *Container) Close() error {
	if c == nil || c.CalculationsDB == nil {
		return nil
	}
	return c.CalculationsDB.Close()
}
