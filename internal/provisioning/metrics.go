package provisioning

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-run statistics in a private registry so they can be
// written to a node_exporter textfile after the run.
type Metrics struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.GaugeVec
	phaseResult   *prometheus.GaugeVec
	actionsTotal  *prometheus.CounterVec
	runSuccess    prometheus.Gauge
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hostprep",
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of the last run of each phase in seconds",
			},
			[]string{"phase"},
		),
		phaseResult: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hostprep",
				Subsystem: "phase",
				Name:      "result",
				Help:      "Result of the last run of each phase (1 for the observed result)",
			},
			[]string{"phase", "result"},
		),
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostprep",
				Subsystem: "run",
				Name:      "actions_total",
				Help:      "Number of actions in the last run by phase and outcome",
			},
			[]string{"phase", "outcome"},
		),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostprep",
			Subsystem: "run",
			Name:      "success",
			Help:      "1 if the last run completed, 0 otherwise",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostprep",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of the last run in seconds",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostprep",
			Subsystem: "run",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(
		m.phaseDuration,
		m.phaseResult,
		m.actionsTotal,
		m.runSuccess,
		m.runDuration,
		m.lastRun,
	)
	return m
}

// RecordPhase records the result and duration of a phase.
func (m *Metrics) RecordPhase(phase, result string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Set(d.Seconds())
	m.phaseResult.WithLabelValues(phase, result).Set(1)
}

// RecordAction counts one action.
func (m *Metrics) RecordAction(phase, outcome string) {
	m.actionsTotal.WithLabelValues(phase, outcome).Inc()
}

// RecordRun records the overall result of a run.
func (m *Metrics) RecordRun(success bool, d time.Duration) {
	if success {
		m.runSuccess.Set(1)
	} else {
		m.runSuccess.Set(0)
	}
	m.runDuration.Set(d.Seconds())
	m.lastRun.SetToCurrentTime()
}

// WriteTextfile writes the metrics in text exposition format. The file is
// written atomically, as the node_exporter textfile collector expects.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
