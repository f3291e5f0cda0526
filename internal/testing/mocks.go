package testing

import (
	"sync"

	"github.com/aristath/hedgeguard/internal/events"
)

// MockEventEmitter records typed events instead of publishing them
type MockEventEmitter struct {
	mu      sync.Mutex
	emitted []events.EventData
	modules []string
}

// NewMockEventEmitter creates a new mock event emitter
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

// EmitTyped records an event
func (m *MockEventEmitter) EmitTyped(module string, data events.EventData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, data)
	m.modules = append(m.modules, module)
}

// Emitted returns a copy of the recorded events
func (m *MockEventEmitter) Emitted() []events.EventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.EventData(nil), m.emitted...)
}

// Modules returns the module name passed with each recorded event
func (m *MockEventEmitter) Modules() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.modules...)
}

// OfType returns recorded events of the given type
func (m *MockEventEmitter) OfType(eventType events.EventType) []events.EventData {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []events.EventData
	for _, e := range m.emitted {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
