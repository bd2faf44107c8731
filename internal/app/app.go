package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/graph"
	"github.com/specialistvlad/shipgrid/internal/metrics"
	"github.com/specialistvlad/shipgrid/internal/pipeline"
	"github.com/specialistvlad/shipgrid/internal/process"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	graph   *graph.Graph
	runner  process.Runner
	metrics *metrics.Metrics

	httpServer *http.Server
}

// Option configures an App.
type Option func(*App)

// WithRunner replaces the process runner used for every external tool.
func WithRunner(r process.Runner) Option {
	return func(a *App) { a.runner = r }
}

// NewApp is the constructor for the main application. It loads the build
// declaration and builds the task graph, so every construction fault is
// reported here, before anything runs.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		runner:  process.NewRunner(),
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	model, err := a.loadModel(ctx, loader)
	if err != nil {
		return nil, fmt.Errorf("failed to load build declaration: %w", err)
	}
	a.model = model

	g, err := pipeline.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build task graph: %w", err)
	}
	a.graph = g
	logger.Debug("Task graph built.", "task_count", g.Len())

	return a, nil
}

// Graph returns the application's task graph.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// Model returns the loaded build declaration.
func (a *App) Model() *config.Model {
	return a.model
}

// Metrics returns the collectors recorded by runs of this App.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
