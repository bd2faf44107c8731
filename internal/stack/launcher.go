// Package stack brings up a multi-container runtime stack through the
// compose CLI.
package stack

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/process"
)

// DefaultCompose is the orchestrator invocation prefix.
var DefaultCompose = []string{"docker", "compose"}

// StackSpec describes one stack launch.
type StackSpec struct {
	// File is the primary stack definition.
	File string
	// Files are additional definitions layered over File, in order.
	Files []string
	// Images lists the image tags the stack expects. Their existence is
	// guaranteed by graph edges and is not checked again here.
	Images []string
	// Project overrides the compose project name.
	Project string
	// Detach returns once containers are started instead of attaching.
	Detach bool
}

// Validate checks required fields.
func (s StackSpec) Validate() error {
	if strings.TrimSpace(s.File) == "" {
		return fmt.Errorf("stack definition file is required")
	}
	return nil
}

// Args renders the orchestrator arguments that follow the compose prefix.
func (s StackSpec) Args() []string {
	args := []string{"-f", s.File}
	for _, f := range s.Files {
		args = append(args, "-f", f)
	}
	if s.Project != "" {
		args = append(args, "-p", s.Project)
	}
	args = append(args, "up")
	if s.Detach {
		args = append(args, "-d")
	}
	return args
}

// Launcher runs the orchestrator's up operation.
type Launcher struct {
	runner  process.Runner
	compose []string
	// Output receives live orchestrator output when set.
	Output io.Writer
}

// NewLauncher creates a Launcher. An empty compose prefix selects
// DefaultCompose.
func NewLauncher(runner process.Runner, compose ...string) *Launcher {
	if len(compose) == 0 {
		compose = DefaultCompose
	}
	return &Launcher{runner: runner, compose: compose}
}

// Command returns the process invocation for spec without running it.
func (l *Launcher) Command(spec StackSpec) process.Command {
	args := append(append([]string{}, l.compose[1:]...), spec.Args()...)
	return process.Command{Name: l.compose[0], Args: args, Stdout: l.Output, Stderr: l.Output}
}

// Up blocks until the orchestrator exits and returns its exit code
// verbatim. A non-zero code comes with a *process.ExternalToolError.
func (l *Launcher) Up(ctx context.Context, spec StackSpec) (int, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	logger := ctxlog.FromContext(ctx).With("stack", spec.File)

	cmd := l.Command(spec)
	logger.Info("Launching stack.", "command", cmd.String(), "images", spec.Images)
	res, err := l.runner.Run(ctx, cmd)
	if err != nil {
		if code, ok := process.ExitCode(err); ok {
			logger.Error("Stack exited with failure.", "exit_code", code)
			return code, err
		}
		return 0, err
	}
	logger.Info("Stack exited.", "exit_code", res.ExitCode, "duration", res.Duration)
	return res.ExitCode, nil
}
