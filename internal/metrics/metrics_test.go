package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_TaskLifecycle(t *testing.T) {
	m := New()

	m.TaskStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksRunning))

	m.TaskFinished("image", "done", 2*time.Second)
	m.TaskSkipped("stack")

	assert.Equal(t, 0.0, testutil.ToFloat64(m.tasksRunning))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksTotal.WithLabelValues("image", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksTotal.WithLabelValues("stack", "skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.taskDuration))
}

func TestMetrics_Runs(t *testing.T) {
	m := New()
	m.RunFinished("success")
	m.RunFinished("failure")
	m.RunFinished("failure")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("failure")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TaskStarted()
		m.TaskFinished("noop", "done", time.Millisecond)
		m.TaskSkipped("noop")
		m.RunFinished("success")
	})
}
