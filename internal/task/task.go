// Package task defines the unit of work scheduled by the executor: a named
// node with a group label, a description, dependency names, one typed action
// and an atomically managed completion state.
package task

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSkipped is the cause recorded on a task that never started because an
// upstream task failed or the run was aborted.
var ErrSkipped = errors.New("skipped")

// State represents the execution state of a task within a single run.
type State int32

const (
	// Pending indicates the task is waiting for its dependencies to complete.
	Pending State = iota
	// Running indicates the task's action is currently executing on a worker.
	Running
	// Done indicates the action completed successfully.
	Done
	// Failed indicates the action failed, or the task was skipped.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// Task is a single vertex in the task graph.
type Task struct {
	// Name is the unique identifier used on the command line and in edges.
	Name string
	// Group is the human-facing category shown by `shipgrid tasks`.
	Group string
	// Description is a one-line summary shown by `shipgrid tasks`.
	Description string
	// Dependencies holds the names of tasks that must be done first, in
	// declaration order.
	Dependencies []string
	// Action is the work performed when the task runs.
	Action Action

	// index is the declaration position inside the owning graph; it breaks
	// ties wherever an order is reported.
	index int

	state atomic.Int32

	mu       sync.Mutex
	err      error
	output   any
	started  time.Time
	finished time.Time
}

// New creates a pending task. A nil action is treated as a no-op aggregator.
func New(name, group, description string, deps []string, action Action) *Task {
	if action == nil {
		action = Noop{}
	}
	return &Task{
		Name:         name,
		Group:        group,
		Description:  description,
		Dependencies: append([]string(nil), deps...),
		Action:       action,
	}
}

// Index returns the declaration position assigned by the graph.
func (t *Task) Index() int { return t.index }

// SetIndex is called once by the graph when the task is registered.
func (t *Task) SetIndex(i int) { t.index = i }

// State atomically returns the current state.
func (t *Task) State() State { return State(t.state.Load()) }

// Start moves the task from pending to running. It returns false if the task
// already left the pending state, which callers treat as "someone else owns it".
func (t *Task) Start() bool {
	if !t.state.CompareAndSwap(int32(Pending), int32(Running)) {
		return false
	}
	t.mu.Lock()
	t.started = time.Now()
	t.mu.Unlock()
	return true
}

// Complete moves a running task to done and records its output.
func (t *Task) Complete(output any) bool {
	if !t.state.CompareAndSwap(int32(Running), int32(Done)) {
		return false
	}
	t.mu.Lock()
	t.output = output
	t.finished = time.Now()
	t.mu.Unlock()
	return true
}

// Fail moves a running task to failed with the given cause.
func (t *Task) Fail(err error) bool {
	if !t.state.CompareAndSwap(int32(Running), int32(Failed)) {
		return false
	}
	t.setErr(err)
	return true
}

// Skip moves a pending task straight to failed. The recorded error wraps
// ErrSkipped together with the reason.
func (t *Task) Skip(reason string) bool {
	if !t.state.CompareAndSwap(int32(Pending), int32(Failed)) {
		return false
	}
	t.setErr(fmt.Errorf("%w: %s", ErrSkipped, reason))
	return true
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.finished = time.Now()
	t.mu.Unlock()
}

// Err returns the failure cause, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Output returns what the action produced: an archive path, an image tag,
// an exit code, or nil for aggregators.
func (t *Task) Output() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.output
}

// Duration returns how long the action ran. It is zero for tasks that never
// started.
func (t *Task) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started.IsZero() || t.finished.IsZero() {
		return 0
	}
	return t.finished.Sub(t.started)
}

// Reset returns the task to pending so a graph can be executed again in a
// new invocation-scoped run (used by tests and dry runs).
func (t *Task) Reset() {
	t.state.Store(int32(Pending))
	t.mu.Lock()
	t.err, t.output = nil, nil
	t.started, t.finished = time.Time{}, time.Time{}
	t.mu.Unlock()
}
