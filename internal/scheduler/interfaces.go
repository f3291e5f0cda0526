package scheduler

import (
	"github.com/aristath/hedgeguard/internal/events"
)

// EventManagerInterface defines the contract for event emission
type EventManagerInterface interface {
	EmitTyped(module string, data events.EventData)
}

func jobFailedData(name string, err error) events.EventData {
	return &events.JobFailedData{Job: name, Error: err.Error()}
}
