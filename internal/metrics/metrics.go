// Package metrics defines the Prometheus collectors recorded by the executor.
//
// Collectors are registered on a private registry owned by each Metrics value
// so tests and repeated runs in one process never collide on the global
// default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipgrid"

// Metrics holds the collectors for one process.
type Metrics struct {
	Registry *prometheus.Registry

	// tasksTotal counts tasks reaching a terminal state.
	// Labels: kind (noop, assemble, image, stack, exec), state (done, failed, skipped)
	tasksTotal *prometheus.CounterVec

	// taskDuration measures action run time of tasks that ran.
	// Labels: kind
	taskDuration *prometheus.HistogramVec

	// runsTotal counts executor runs.
	// Labels: result (success, failure, canceled)
	runsTotal *prometheus.CounterVec

	// tasksRunning tracks in-flight actions.
	tasksRunning prometheus.Gauge
}

// New creates a Metrics value with its own registry. Go runtime and process
// collectors are included so the status server's /metrics is useful on its
// own.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_total",
			Help:      "Tasks that reached a terminal state",
		}, []string{"kind", "state"}),
		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "task_duration_seconds",
			Help:      "Task action run time in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"kind"}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Executor runs by result",
		}, []string{"result"}),
		tasksRunning: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "tasks_running",
			Help:      "Task actions currently running",
		}),
	}
}

// TaskStarted records an action starting.
func (m *Metrics) TaskStarted() {
	if m == nil {
		return
	}
	m.tasksRunning.Inc()
}

// TaskFinished records an action that ran to a terminal state.
func (m *Metrics) TaskFinished(kind, state string, d time.Duration) {
	if m == nil {
		return
	}
	m.tasksRunning.Dec()
	m.tasksTotal.WithLabelValues(kind, state).Inc()
	m.taskDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// TaskSkipped records a task that never started.
func (m *Metrics) TaskSkipped(kind string) {
	if m == nil {
		return
	}
	m.tasksTotal.WithLabelValues(kind, "skipped").Inc()
}

// RunFinished records the outcome of one executor run.
func (m *Metrics) RunFinished(result string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
}
