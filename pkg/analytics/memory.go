package analytics

import (
	"context"
	"sync"
)

// Event is one captured analytics event.
type Event struct {
	Name   string
	Params Params
}

// Memory captures events in order. Intended for tests asserting on event
// names and parameters; safe for concurrent use.
type Memory struct {
	events []Event
	mu     sync.RWMutex
}

// NewMemory creates an empty capture sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Track(_ context.Context, event string, params Params) {
	// Copy the params so later mutation by the caller cannot corrupt the capture.
	copied := make(Params, len(params))
	for k, v := range params {
		copied[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Name: event, Params: copied})
}

// Events returns a copy of all captured events in emission order.
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// ByName returns captured events matching the given name.
func (m *Memory) ByName(name string) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Event
	for _, e := range m.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all captured events.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
