package executor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/task"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan <-chan *task.Task, results chan<- completion, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for t := range readyChan {
		workerLogger := logger.With("workerID", workerID, "task", t.Name)

		if !t.Start() {
			// Only the coordinator dispatches, and only pending tasks.
			err := fmt.Errorf("task %s dispatched in state %s", t.Name, t.State())
			workerLogger.Error("Refusing to run task.", "error", err)
			results <- completion{t: t, err: err}
			continue
		}

		workerLogger.Debug("Worker picked up task for execution.")
		err := e.runTask(ctx, t)
		if err != nil {
			workerLogger.Error("Task execution failed.", "error", err)
		} else {
			workerLogger.Debug("Task execution succeeded.")
		}
		results <- completion{t: t, err: err}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// runTask executes one task's action inside its own span and records the
// terminal state on the task.
func (e *Executor) runTask(ctx context.Context, t *task.Task) error {
	kind := t.Action.Kind()
	ctx, span := tracer.Start(ctx, t.Name,
		trace.WithAttributes(
			attribute.String("shipgrid.task", t.Name),
			attribute.String("shipgrid.group", t.Group),
			attribute.String("shipgrid.action", kind),
			attribute.StringSlice("shipgrid.dependencies", t.Dependencies),
		),
	)
	defer span.End()

	ctx, logger := ctxlog.With(ctx, "task", t.Name, "group", t.Group)
	logger.Info("▶️ Starting task", "action", kind)
	e.metrics.TaskStarted()

	output, err := e.dispatch(ctx, t)
	if err != nil {
		t.Fail(err)
		e.metrics.TaskFinished(kind, task.Failed.String(), t.Duration())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	t.Complete(output)
	e.metrics.TaskFinished(kind, task.Done.String(), t.Duration())
	logger.Info("✅ Finished task", "duration", t.Duration())
	return nil
}

// dispatch is the single switch over the closed set of action variants.
func (e *Executor) dispatch(ctx context.Context, t *task.Task) (any, error) {
	switch a := t.Action.(type) {
	case task.Noop:
		return nil, nil
	case task.AssembleArtifact:
		return e.assembler.Assemble(ctx, a.Spec)
	case task.BuildImage:
		return e.images.Build(ctx, a.Spec)
	case task.LaunchStack:
		code, err := e.stacks.Up(ctx, a.Spec)
		if err != nil {
			return nil, err
		}
		return code, nil
	case task.Exec:
		cmd := a.Command
		if cmd.Stdout == nil {
			cmd.Stdout = e.output
		}
		if cmd.Stderr == nil {
			cmd.Stderr = e.output
		}
		res, err := e.runner.Run(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return res.ExitCode, nil
	default:
		return nil, fmt.Errorf("task %s: unsupported action %T", t.Name, a)
	}
}
