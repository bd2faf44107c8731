package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/process"
)

const (
	// DefaultEngine is the container engine executable.
	DefaultEngine = "docker"
	// DefaultJobs bounds concurrent engine invocations.
	DefaultJobs = 2
)

// ImageSpec describes one image build.
type ImageSpec struct {
	// Tag is the image reference, e.g. "worker-node:latest".
	Tag string
	// Recipe is the Dockerfile path, relative to the working directory.
	Recipe string
	// Context is the build context directory.
	Context string
	// Artifact is required and must exist before the engine is called.
	Artifact string
	// BuildArgs are passed as --build-arg in key order.
	BuildArgs map[string]string
	// Platform is passed as --platform when set.
	Platform string
}

// Validate checks required fields.
func (s ImageSpec) Validate() error {
	if strings.TrimSpace(s.Tag) == "" {
		return fmt.Errorf("image tag is required")
	}
	if strings.TrimSpace(s.Recipe) == "" {
		return fmt.Errorf("image %s: recipe is required", s.Tag)
	}
	if strings.TrimSpace(s.Artifact) == "" {
		return fmt.Errorf("image %s: source artifact is required", s.Tag)
	}
	return nil
}

// Args renders the engine arguments for the build.
func (s ImageSpec) Args() []string {
	args := []string{"build", "-t", s.Tag, "-f", s.Recipe}

	keys := make([]string, 0, len(s.BuildArgs))
	for k := range s.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+s.BuildArgs[k])
	}
	if s.Platform != "" {
		args = append(args, "--platform", s.Platform)
	}

	buildContext := s.Context
	if buildContext == "" {
		buildContext = "."
	}
	return append(args, buildContext)
}

// Builder invokes the engine. It is safe for concurrent use; at most Jobs
// builds run at once.
type Builder struct {
	runner process.Runner
	engine string
	sem    *semaphore.Weighted
	// Output receives live engine output when set.
	Output io.Writer
}

// Option configures a Builder.
type Option func(*Builder)

// WithEngine overrides the engine executable.
func WithEngine(engine string) Option {
	return func(b *Builder) {
		if engine != "" {
			b.engine = engine
		}
	}
}

// WithJobs overrides the concurrent build bound.
func WithJobs(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewBuilder creates a Builder that runs the engine through runner.
func NewBuilder(runner process.Runner, opts ...Option) *Builder {
	b := &Builder{
		runner: runner,
		engine: DefaultEngine,
		sem:    semaphore.NewWeighted(DefaultJobs),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Engine returns the configured engine executable.
func (b *Builder) Engine() string { return b.engine }

// Command returns the process invocation for spec without running it.
func (b *Builder) Command(spec ImageSpec) process.Command {
	return process.Command{Name: b.engine, Args: spec.Args(), Stdout: b.Output, Stderr: b.Output}
}

// Build checks the artifact precondition, then runs the engine and returns
// the image tag.
func (b *Builder) Build(ctx context.Context, spec ImageSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	logger := ctxlog.FromContext(ctx).With("image", spec.Tag)

	if _, err := os.Stat(spec.Artifact); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &PreconditionError{Tag: spec.Tag, Artifact: spec.Artifact}
		}
		return "", fmt.Errorf("checking artifact %s: %w", spec.Artifact, err)
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for engine slot: %w", err)
	}
	defer b.sem.Release(1)

	cmd := b.Command(spec)
	logger.Info("Building image.", "command", cmd.String())
	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	logger.Info("Image built.", "duration", res.Duration)
	return spec.Tag, nil
}
