package executor

import (
	"context"
	"io"
	"runtime"

	"go.opentelemetry.io/otel"

	"github.com/specialistvlad/shipgrid/internal/assembler"
	"github.com/specialistvlad/shipgrid/internal/image"
	"github.com/specialistvlad/shipgrid/internal/metrics"
	"github.com/specialistvlad/shipgrid/internal/process"
	"github.com/specialistvlad/shipgrid/internal/stack"
)

var tracer = otel.Tracer("shipgrid/executor")

// MaxDefaultWorkers caps the default pool size so a large machine does not
// oversubscribe the container engine.
const MaxDefaultWorkers = 4

// ArtifactAssembler produces a runnable archive and returns its path.
type ArtifactAssembler interface {
	Assemble(ctx context.Context, spec assembler.ArtifactSpec) (string, error)
}

// ImageBuilder produces a container image and returns its tag.
type ImageBuilder interface {
	Build(ctx context.Context, spec image.ImageSpec) (string, error)
}

// StackLauncher brings up a stack and returns the orchestrator's exit code.
type StackLauncher interface {
	Up(ctx context.Context, spec stack.StackSpec) (int, error)
}

// Executor orchestrates the end-to-end execution of a task graph.
type Executor struct {
	workers   int
	runner    process.Runner
	assembler ArtifactAssembler
	images    ImageBuilder
	stacks    StackLauncher
	metrics   *metrics.Metrics
	output    io.Writer
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkers sets the pool size. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithAssembler replaces the artifact assembler.
func WithAssembler(a ArtifactAssembler) Option {
	return func(e *Executor) { e.assembler = a }
}

// WithImageBuilder replaces the image builder.
func WithImageBuilder(b ImageBuilder) Option {
	return func(e *Executor) { e.images = b }
}

// WithStackLauncher replaces the stack launcher.
func WithStackLauncher(l StackLauncher) Option {
	return func(e *Executor) { e.stacks = l }
}

// WithMetrics records task outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithOutput streams the live output of exec actions to w.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.output = w }
}

// New creates an Executor. External processes run through runner; the
// default image builder and stack launcher share it.
func New(runner process.Runner, opts ...Option) *Executor {
	e := &Executor{
		workers:   DefaultWorkers(),
		runner:    runner,
		assembler: assembler.New(),
		images:    image.NewBuilder(runner),
		stacks:    stack.NewLauncher(runner),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultWorkers returns min(NumCPU, MaxDefaultWorkers).
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxDefaultWorkers)
}

// Workers returns the pool size.
func (e *Executor) Workers() int { return e.workers }
