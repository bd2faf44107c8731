package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/graph"
	"github.com/specialistvlad/shipgrid/internal/task"
)

// Event is one terminal transition observed during a run.
type Event struct {
	Task     string
	State    task.State
	At       time.Time
	Duration time.Duration
	Err      error
}

// Result describes a finished run.
type Result struct {
	// Order lists the tasks that reached done, in topological order with
	// declaration index as the tie-break. With one worker it is exactly the
	// completion order.
	Order []string
	// Timeline lists terminal transitions in the order they happened,
	// including failures and skips.
	Timeline []Event
	// ExitCode is 0 on success, the external tool's code when one caused the
	// failure, and 1 otherwise.
	ExitCode int
}

// completion is what a worker reports back for one task.
type completion struct {
	t   *task.Task
	err error
}

// Plan resolves targets and returns the closure in the order a single worker
// would run it. Nothing is executed.
func Plan(g *graph.Graph, targets ...string) ([]*task.Task, error) {
	closure, err := g.Resolve(targets...)
	if err != nil {
		return nil, err
	}
	return topoOrder(closure), nil
}

// Run resolves targets and executes the closure. A task starts only after
// all its dependencies are done, and each task runs at most once.
//
// The first failure stops scheduling. Tasks already running finish on a
// context detached from ctx's cancellation, so external processes are never
// killed by an abort. Tasks that never started are marked failed with
// task.ErrSkipped. The returned Result is non-nil whenever resolution
// succeeded, including on failure.
//
// Result.Order is the canonical topological order of the tasks that
// succeeded, not their finishing order; the two agree only with a single
// worker. Result.Timeline records the order tasks actually finished.
func (e *Executor) Run(ctx context.Context, g *graph.Graph, targets ...string) (*Result, error) {
	closure, err := g.Resolve(targets...)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "shipgrid.Run",
		trace.WithAttributes(
			attribute.StringSlice("shipgrid.targets", targets),
			attribute.Int("shipgrid.task_count", len(closure)),
			attribute.Int("shipgrid.workers", e.workers),
		),
	)
	defer span.End()

	logger := ctxlog.FromContext(ctx)
	logger.Info("Starting run.", "targets", targets, "tasks", len(closure), "workers", e.workers)

	for _, t := range closure {
		t.Reset()
	}
	remaining, dependents := edges(closure)

	var q readyQueue
	for _, t := range closure {
		if remaining[t.Name] == 0 {
			logger.Debug("Found root task.", "task", t.Name)
			q.push(t)
		}
	}

	workCtx := context.WithoutCancel(ctx)
	readyChan := make(chan *task.Task, e.workers)
	results := make(chan completion, e.workers)

	var wg sync.WaitGroup
	logger.Debug("Starting worker pool.", "workers", e.workers)
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			e.worker(workCtx, readyChan, results, workerID)
		}(i)
	}

	res := &Result{}
	var (
		firstFailure *task.Task
		canceled     error
		stopping     bool
		inflight     int
		pending      = len(closure)
		cancelCh     = ctx.Done()
	)

	for pending > 0 {
		if !stopping && ctx.Err() != nil {
			cancelCh = nil
			canceled = ctx.Err()
			stopping = true
			logger.Warn("Run canceled, no new tasks will start.", "in_flight", inflight)
		}
		for !stopping && inflight < e.workers && q.Len() > 0 {
			t := q.pop()
			logger.Debug("Dispatching task.", "task", t.Name)
			inflight++
			readyChan <- t
		}
		if inflight == 0 {
			break
		}

		select {
		case c := <-results:
			inflight--
			pending--
			res.Timeline = append(res.Timeline, event(c.t))
			if c.err != nil {
				if firstFailure == nil {
					firstFailure = c.t
					logger.Error("Stopping scheduling after task failure.", "task", c.t.Name, "error", c.err)
				}
				stopping = true
				pending -= e.skipDependents(ctx, res, c.t, dependents)
				continue
			}
			for _, d := range dependents[c.t.Name] {
				remaining[d.Name]--
				if remaining[d.Name] == 0 {
					logger.Debug("Unlocking dependent task.", "task", d.Name, "dependency", c.t.Name)
					q.push(d)
				}
			}
		case <-cancelCh:
			cancelCh = nil
			canceled = ctx.Err()
			stopping = true
			logger.Warn("Run canceled, no new tasks will start.", "in_flight", inflight)
		}
	}
	close(readyChan)
	wg.Wait()

	reason := "run aborted"
	if firstFailure != nil {
		reason = fmt.Sprintf("run aborted after %q failed", firstFailure.Name)
	} else if canceled != nil {
		reason = "run canceled"
	}
	var skipped []string
	for _, t := range closure {
		if t.State() == task.Failed && errors.Is(t.Err(), task.ErrSkipped) {
			skipped = append(skipped, t.Name)
			continue
		}
		if t.Skip(reason) {
			logger.Warn("Skipping task.", "task", t.Name, "reason", reason)
			e.metrics.TaskSkipped(t.Action.Kind())
			res.Timeline = append(res.Timeline, event(t))
			skipped = append(skipped, t.Name)
		}
	}

	for _, t := range topoOrder(closure) {
		if t.State() == task.Done {
			res.Order = append(res.Order, t.Name)
		}
	}

	var runErr error
	switch {
	case firstFailure != nil:
		runErr = &RunError{Task: firstFailure.Name, Err: firstFailure.Err(), Skipped: skipped}
		e.metrics.RunFinished("failure")
	case canceled != nil:
		runErr = fmt.Errorf("run canceled: %w", canceled)
		e.metrics.RunFinished("canceled")
	default:
		e.metrics.RunFinished("success")
	}
	res.ExitCode = ExitCode(runErr)

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		logger.Error("Run failed.", "error", runErr, "exit_code", res.ExitCode, "completed", len(res.Order), "skipped", len(skipped))
		return res, runErr
	}
	logger.Info("Run completed.", "completed", len(res.Order))
	return res, nil
}

// skipDependents recursively marks all unstarted downstream tasks of a
// failed task as failed and returns how many it marked.
func (e *Executor) skipDependents(ctx context.Context, res *Result, failed *task.Task, dependents map[string][]*task.Task) int {
	logger := ctxlog.FromContext(ctx)
	n := 0
	for _, d := range dependents[failed.Name] {
		if !d.Skip(fmt.Sprintf("upstream failure of %q", failed.Name)) {
			continue
		}
		logger.Warn("Skipping dependent task due to upstream failure.", "task", d.Name, "dependency", failed.Name)
		e.metrics.TaskSkipped(d.Action.Kind())
		res.Timeline = append(res.Timeline, event(d))
		n++
		n += e.skipDependents(ctx, res, d, dependents)
	}
	return n
}

func event(t *task.Task) Event {
	return Event{
		Task:     t.Name,
		State:    t.State(),
		At:       time.Now(),
		Duration: t.Duration(),
		Err:      t.Err(),
	}
}
