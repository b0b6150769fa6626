package service

import (
	"context"
	"sync"

	"mural/internal/logger"
)

// Events emitted to whoever presents the collection.
const (
	EventPagesChanged     = "pages:changed"
	EventExternalChange   = "document:external-change"
	EventSnapshotCreated  = "history:snapshot"
	EventSnapshotRestored = "history:restored"
)

// EventEmitter decouples services from the presentation layer.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NopEmitter drops every event.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}

// Broadcaster fans every event out to its subscribers in subscription order.
// Subscribers may be added while events are flowing.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []EventEmitter
}

// Subscribe adds e to the receivers of every later event.
func (b *Broadcaster) Subscribe(e EventEmitter) {
	b.mu.Lock()
	b.subs = append(b.subs, e)
	b.mu.Unlock()
}

func (b *Broadcaster) Emit(ctx context.Context, event string, data any) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, e := range subs {
		e.Emit(ctx, event, data)
	}
}

// LogEmitter writes events to the log.
type LogEmitter struct {
	log *logger.Logger
}

func NewLogEmitter(log *logger.Logger) *LogEmitter {
	return &LogEmitter{log: log.WithComponent("events")}
}

func (e *LogEmitter) Emit(_ context.Context, event string, data any) {
	e.log.Debugw("event", "event", event, "data", data)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Events))
	for i, e := range m.Events {
		names[i] = e.Event
	}
	return names
}
