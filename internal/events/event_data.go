package events

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// RebalanceComputedData contains data for RebalanceComputed events
type RebalanceComputedData struct {
	CalculationID       string  `json:"calculation_id,omitempty"`
	PredictedVolatility float64 `json:"predicted_volatility"`
	TargetWeight        float64 `json:"target_weight"`
	PositionValue       float64 `json:"position_value"`
	CashValue           float64 `json:"cash_value"`
	Capped              bool    `json:"capped"`
}

// EventType returns the event type for RebalanceComputedData
func (d *RebalanceComputedData) EventType() EventType {
	return RebalanceComputed
}

// RiskMetricsComputedData contains data for RiskMetricsComputed events
type RiskMetricsComputedData struct {
	CalculationID   string  `json:"calculation_id,omitempty"`
	Column          string  `json:"column"`
	Alpha           float64 `json:"alpha"`
	VaR             float64 `json:"var"`
	ES              float64 `json:"es"`
	ConfidenceLevel string  `json:"confidence_level"`
	Observations    int     `json:"observations"`
}

// EventType returns the event type for RiskMetricsComputedData
func (d *RiskMetricsComputedData) EventType() EventType {
	return RiskMetricsComputed
}

// MaintenanceCompletedData contains data for MaintenanceCompleted events
type MaintenanceCompletedData struct {
	Job            string  `json:"job"`
	DurationMs     int64   `json:"duration_ms"`
	RecordsDeleted int64   `json:"records_deleted,omitempty"`
	WALSizeMB      float64 `json:"wal_size_mb,omitempty"`
}

// EventType returns the event type for MaintenanceCompletedData
func (d *MaintenanceCompletedData) EventType() EventType {
	return MaintenanceCompleted
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Key        string `json:"key"`
	SizeBytes  int64  `json:"size_bytes"`
	DurationMs int64  `json:"duration_ms"`
	Rotated    int    `json:"rotated"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}

// JobFailedData contains data for JobFailed events
type JobFailedData struct {
	Job   string `json:"job"`
	Error string `json:"error"`
}

// EventType returns the event type for JobFailedData
func (d *JobFailedData) EventType() EventType {
	return JobFailed
}

// ErrorEventData contains data for ErrorOccurred events
type ErrorEventData struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// EventType returns the event type for ErrorEventData
func (d *ErrorEventData) EventType() EventType {
	return ErrorOccurred
}
