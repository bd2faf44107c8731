package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/executor"
	"github.com/specialistvlad/shipgrid/internal/image"
	"github.com/specialistvlad/shipgrid/internal/stack"
	"github.com/specialistvlad/shipgrid/internal/task"
)

// Run executes the configured targets and returns the executor's result.
// The result is non-nil whenever the run started, including on failure, so
// callers can read its exit code. A dry run prints the plan and returns a
// nil result.
func (a *App) Run(ctx context.Context) (*executor.Result, error) {
	if len(a.config.Targets) == 0 {
		return nil, errors.New("no target tasks given")
	}

	runID := uuid.NewString()[:12]
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if a.config.DryRun {
		return nil, a.Plan(a.outW)
	}

	shutdownTracing, err := setupTracing(ctx, a.config.TraceFile, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("Trace export shutdown failed.", "error", err)
		}
	}()

	if a.config.StatusPort > 0 {
		a.startStatusServer(ctx, a.config.StatusPort)
		defer a.closeStatusServer(ctx)
	}

	exec := a.newExecutor()
	logger.Info("🚀 Starting execution...", "targets", a.config.Targets, "workers", exec.Workers())
	res, err := exec.Run(ctx, a.graph, a.config.Targets...)
	if res != nil {
		a.reportArtifacts(ctx, res)
	}
	if err != nil {
		return res, fmt.Errorf("execution failed: %w", err)
	}

	logger.Info("🏁 Execution finished.", "tasks", len(res.Order))
	logger.Debug("App.Run method finished.")
	return res, nil
}

// Plan prints the order a single worker would run the targets' closure in.
func (a *App) Plan(w io.Writer) error {
	plan, err := executor.Plan(a.graph, a.config.Targets...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Execution plan for %s (%d tasks):\n", strings.Join(a.config.Targets, ", "), len(plan))
	for i, t := range plan {
		fmt.Fprintf(w, "%3d. %-20s %-8s", i+1, t.Name, t.Action.Kind())
		if len(t.Dependencies) > 0 {
			fmt.Fprintf(w, " after %s", strings.Join(t.Dependencies, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (a *App) newExecutor() *executor.Executor {
	builder := image.NewBuilder(a.runner,
		image.WithEngine(a.config.Engine),
		image.WithJobs(a.config.EngineJobs),
	)
	builder.Output = a.outW

	launcher := stack.NewLauncher(a.runner, a.config.Compose...)
	launcher.Output = a.outW

	return executor.New(a.runner,
		executor.WithWorkers(a.config.Workers),
		executor.WithImageBuilder(builder),
		executor.WithStackLauncher(launcher),
		executor.WithMetrics(a.metrics),
		executor.WithOutput(a.outW),
	)
}

// reportArtifacts logs the path and size of every archive the run produced.
func (a *App) reportArtifacts(ctx context.Context, res *executor.Result) {
	logger := ctxlog.FromContext(ctx)
	for _, name := range res.Order {
		t, ok := a.graph.Task(name)
		if !ok {
			continue
		}
		if _, ok := t.Action.(task.AssembleArtifact); !ok {
			continue
		}
		path, _ := t.Output().(string)
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		logger.Info("📦 Artifact ready.", "task", name, "path", path, "size", humanize.Bytes(uint64(fi.Size())))
	}
}
