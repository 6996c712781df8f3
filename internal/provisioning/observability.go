package provisioning

import (
	"fmt"
	"io"
	"maps"
	"sync"
	"time"

	"github.com/imamik/hostprep/internal/ui/report"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Printf logs a free-form debug message.
	Printf(format string, v ...any)

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "preflight", "rust")
	Message   string            // Human-readable message
	Resource  string            // Package, file or unit the event is about
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventRunStarted indicates a run has started.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted indicates every phase completed.
	EventRunCompleted EventType = "run.completed"

	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"
	// EventPhaseSkipped indicates a phase disabled by configuration.
	EventPhaseSkipped EventType = "phase.skipped"

	// EventStep reports progress inside a phase.
	EventStep EventType = "step"
	// EventActionApplied indicates the host was changed.
	EventActionApplied EventType = "action.applied"
	// EventActionSkipped indicates the host already matched.
	EventActionSkipped EventType = "action.skipped"
	// EventActionWarned indicates a best-effort step failed.
	EventActionWarned EventType = "action.warned"
)

// level maps an event type to the console log level.
func (t EventType) level() report.Level {
	switch t {
	case EventPhaseCompleted, EventRunCompleted, EventActionApplied:
		return report.LevelSuccess
	case EventPhaseSkipped, EventActionSkipped:
		return report.LevelSkip
	case EventActionWarned:
		return report.LevelWarning
	case EventPhaseFailed:
		return report.LevelError
	default:
		return report.LevelInfo
	}
}

// ConsoleObserver writes coloured single-line events.
type ConsoleObserver struct {
	mu            *sync.Mutex
	out           io.Writer
	styles        report.Styles
	verbose       bool
	contextFields map[string]string
}

// NewConsoleObserver creates a console observer writing to out. Debug
// messages from Printf are only shown when verbose is set.
func NewConsoleObserver(out io.Writer, verbose bool) *ConsoleObserver {
	return &ConsoleObserver{
		mu:            &sync.Mutex{},
		out:           out,
		styles:        report.NewStyles(out),
		verbose:       verbose,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	if !o.verbose {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.styles.WriteLine(o.out, report.LevelInfo, "", fmt.Sprintf(format, v...), o.contextFields)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Type == EventPhaseStarted && !o.verbose {
		return
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	maps.Copy(fields, o.contextFields)
	maps.Copy(fields, event.Fields)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.styles.WriteLine(o.out, event.Type.level(), event.Phase, event.Message, fields)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	maps.Copy(newFields, o.contextFields)
	maps.Copy(newFields, fields)

	return &ConsoleObserver{
		mu:            o.mu,
		out:           o.out,
		styles:        o.styles,
		verbose:       o.verbose,
		contextFields: newFields,
	}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogPhaseSkipped logs a phase disabled by configuration.
func LogPhaseSkipped(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseSkipped,
		Phase:   phase,
		Message: "disabled in configuration",
	})
}
