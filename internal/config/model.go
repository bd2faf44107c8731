package config

import (
	"fmt"
	"strings"
)

// Model is the unified representation of a build declaration.
type Model struct {
	// Variables holds the evaluated value of every declared variable.
	Variables map[string]string
	// Tasks in declaration order.
	Tasks []*Task
}

// Task is the format-agnostic representation of a `task` block. At most one
// action block may be set; none means a no-op aggregator.
type Task struct {
	Name        string
	Group       string
	Description string
	DependsOn   []string

	Artifact *Artifact
	Image    *Image
	Stack    *Stack
	Exec     *Exec
}

// Artifact is the `artifact` action block.
type Artifact struct {
	Output             string
	EntryPoint         string
	Sources            []string
	Duplicates         string
	Exclude            []string
	Manifest           map[string]string
	PreserveTimestamps bool
}

// Image is the `image` action block.
type Image struct {
	Tag       string
	Recipe    string
	Context   string
	Artifact  string
	BuildArgs map[string]string
	Platform  string
}

// Stack is the `stack` action block.
type Stack struct {
	File    string
	Files   []string
	Images  []string
	Project string
	Detach  bool
}

// Exec is the `exec` action block.
type Exec struct {
	Command []string
	Dir     string
	Env     map[string]string
}

// ActionKind names the action block that is set, or "noop".
func (t *Task) ActionKind() string {
	switch {
	case t.Artifact != nil:
		return "artifact"
	case t.Image != nil:
		return "image"
	case t.Stack != nil:
		return "stack"
	case t.Exec != nil:
		return "exec"
	default:
		return "noop"
	}
}

// Validate checks the structural rules that do not depend on other tasks.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	var set []string
	if t.Artifact != nil {
		set = append(set, "artifact")
	}
	if t.Image != nil {
		set = append(set, "image")
	}
	if t.Stack != nil {
		set = append(set, "stack")
	}
	if t.Exec != nil {
		set = append(set, "exec")
		if len(t.Exec.Command) == 0 {
			return fmt.Errorf("task %q: exec command must not be empty", t.Name)
		}
	}
	if len(set) > 1 {
		return fmt.Errorf("task %q declares more than one action: %s", t.Name, strings.Join(set, ", "))
	}
	return nil
}

// Task returns the task with the given name.
func (m *Model) Task(name string) (*Task, bool) {
	for _, t := range m.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
