// Package events provides in-process event publication for calculation and maintenance activity.
package events

// EventType represents different event types
type EventType string

const (
	// Calculation events
	RebalanceComputed   EventType = "REBALANCE_COMPUTED"
	RiskMetricsComputed EventType = "RISK_METRICS_COMPUTED"

	// Maintenance events
	MaintenanceCompleted EventType = "MAINTENANCE_COMPLETED"
	BackupCompleted      EventType = "BACKUP_COMPLETED"
	JobFailed            EventType = "JOB_FAILED"

	ErrorOccurred EventType = "ERROR_OCCURRED"
)

// AllEventTypes lists every event type the service emits
func AllEventTypes() []EventType {
	return []EventType{
		RebalanceComputed,
		RiskMetricsComputed,
		MaintenanceCompleted,
		BackupCompleted,
		JobFailed,
		ErrorOccurred,
	}
}
