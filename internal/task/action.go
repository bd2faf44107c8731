package task

import (
	"github.com/specialistvlad/shipgrid/internal/assembler"
	"github.com/specialistvlad/shipgrid/internal/image"
	"github.com/specialistvlad/shipgrid/internal/process"
	"github.com/specialistvlad/shipgrid/internal/stack"
)

// Action is the closed set of things a task can do. The executor dispatches
// on the concrete type with a single type switch; new variants are added
// here, never by callers.
type Action interface {
	// Kind is a short label used in logs, metrics and `shipgrid tasks`.
	Kind() string
	isAction()
}

// Noop aggregates dependencies and does nothing itself.
type Noop struct{}

// AssembleArtifact merges classpath sources into one runnable archive.
type AssembleArtifact struct {
	Spec assembler.ArtifactSpec
}

// BuildImage invokes the container engine's build operation.
type BuildImage struct {
	Spec image.ImageSpec
}

// LaunchStack invokes the compose orchestrator's up operation.
type LaunchStack struct {
	Spec stack.StackSpec
}

// Exec runs an arbitrary external command, e.g. the test-suite runner.
type Exec struct {
	Command process.Command
}

func (Noop) Kind() string             { return "noop" }
func (AssembleArtifact) Kind() string { return "assemble" }
func (BuildImage) Kind() string       { return "image" }
func (LaunchStack) Kind() string      { return "stack" }
func (Exec) Kind() string             { return "exec" }

func (Noop) isAction()             {}
func (AssembleArtifact) isAction() {}
func (BuildImage) isAction()       {}
func (LaunchStack) isAction()      {}
func (Exec) isAction()             {}
