package provisioning

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogrObserver emits events as structured log records.
type LogrObserver struct {
	log logr.Logger
}

// NewLogrObserver wraps an existing logr.Logger.
func NewLogrObserver(log logr.Logger) *LogrObserver {
	return &LogrObserver{log: log}
}

// NewZapLogger builds a JSON zap logger on stderr exposed through logr.
// The returned function flushes buffered records.
func NewZapLogger(verbose bool) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}

// Printf implements Observer. Messages are logged at V(1).
func (o *LogrObserver) Printf(format string, v ...any) {
	o.log.V(1).Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	if !event.Timestamp.IsZero() {
		kv = append(kv, "ts", event.Timestamp)
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		kv = append(kv, k, event.Fields[k])
	}

	switch event.Type {
	case EventPhaseFailed:
		o.log.Error(errors.New(event.Message), "phase failed", kv...)
	case EventPhaseStarted, EventStep:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	kv := make([]any, 0, len(fields)*2)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		kv = append(kv, k, fields[k])
	}
	return &LogrObserver{log: o.log.WithValues(kv...)}
}
