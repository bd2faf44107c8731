// Package pipeline turns a build declaration into a task graph and provides
// the built-in declaration used when no build file exists.
package pipeline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/shipgrid/internal/assembler"
	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/graph"
	"github.com/specialistvlad/shipgrid/internal/image"
	"github.com/specialistvlad/shipgrid/internal/process"
	"github.com/specialistvlad/shipgrid/internal/stack"
	"github.com/specialistvlad/shipgrid/internal/task"
)

// Build registers every declared task, in declaration order, on a new graph
// and validates the whole graph before returning it. Construction faults
// (duplicates, unknown dependencies, cycles) surface here, before anything
// runs.
func Build(ctx context.Context, m *config.Model) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New()

	for _, t := range m.Tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		action, err := Action(t)
		if err != nil {
			return nil, err
		}
		if _, err := g.AddTask(t.Name, t.Group, t.Description, t.DependsOn, action); err != nil {
			return nil, err
		}
		logger.Debug("Registered task.", "task", t.Name, "action", action.Kind(), "depends_on", t.DependsOn)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Action translates the task's action block into its typed variant.
func Action(t *config.Task) (task.Action, error) {
	switch {
	case t.Artifact != nil:
		a := t.Artifact
		policy, err := assembler.ParsePolicy(a.Duplicates)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		spec := assembler.ArtifactSpec{
			Output:             a.Output,
			EntryPoint:         a.EntryPoint,
			Sources:            a.Sources,
			Policy:             policy,
			Exclude:            a.Exclude,
			Manifest:           a.Manifest,
			PreserveTimestamps: a.PreserveTimestamps,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		return task.AssembleArtifact{Spec: spec}, nil

	case t.Image != nil:
		i := t.Image
		spec := image.ImageSpec{
			Tag:       i.Tag,
			Recipe:    i.Recipe,
			Context:   i.Context,
			Artifact:  i.Artifact,
			BuildArgs: i.BuildArgs,
			Platform:  i.Platform,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		return task.BuildImage{Spec: spec}, nil

	case t.Stack != nil:
		s := t.Stack
		spec := stack.StackSpec{
			File:    s.File,
			Files:   s.Files,
			Images:  s.Images,
			Project: s.Project,
			Detach:  s.Detach,
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
		return task.LaunchStack{Spec: spec}, nil

	case t.Exec != nil:
		e := t.Exec
		return task.Exec{Command: process.Command{
			Name: e.Command[0],
			Args: e.Command[1:],
			Dir:  e.Dir,
			Env:  e.Env,
		}}, nil

	default:
		return task.Noop{}, nil
	}
}
