package provisioning

import (
	"context"
	"sync"
	"testing"

	"github.com/imamik/hostprep/internal/config"
	"github.com/imamik/hostprep/internal/host"
	hosttest "github.com/imamik/hostprep/internal/testing"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	mu       sync.Mutex
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{fields: make(map[string]string)}
}

func (m *MockObserver) Printf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	return m
}

func (m *MockObserver) types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// phaseFunc adapts a function to the Phase interface.
type funcPhase struct {
	name    string
	fn      func(*Context) error
	enabled *bool
}

func phaseFunc(name string, fn func(*Context) error) *funcPhase {
	return &funcPhase{name: name, fn: fn}
}

func (p *funcPhase) Name() string                  { return p.name }
func (p *funcPhase) Provision(ctx *Context) error  { return p.fn(ctx) }
func (p *funcPhase) Enabled(_ *config.Config) bool { return p.enabled == nil || *p.enabled }

func newTestContext(t *testing.T) (*Context, *MockObserver) {
	t.Helper()
	observer := NewMockObserver()
	ctx := NewContext(context.Background(), config.Default(), host.New(hosttest.NewFakeHost()), hosttest.NewFakeFetcher(), observer)
	return ctx, observer
}
