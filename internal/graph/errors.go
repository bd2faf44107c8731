package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateTask = errors.New("duplicate task")
	ErrUnknownTask   = errors.New("unknown task")
	ErrCycle         = errors.New("cycle detected")
	ErrSealed        = errors.New("task graph is sealed")
)

// DuplicateTaskError is returned by AddTask when the name is already taken.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateTask, e.Name)
}

func (e *DuplicateTaskError) Unwrap() error { return ErrDuplicateTask }

// UnknownTaskError names a task that was requested or referenced but never
// declared. ReferencedBy is empty when the name came from the caller.
type UnknownTaskError struct {
	Name         string
	ReferencedBy string
}

func (e *UnknownTaskError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("%s: %q", ErrUnknownTask, e.Name)
	}
	return fmt.Sprintf("%s: %q (dependency of %q)", ErrUnknownTask, e.Name, e.ReferencedBy)
}

func (e *UnknownTaskError) Unwrap() error { return ErrUnknownTask }

// CycleError carries the cycle as a closed path: the first and last
// elements are the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }
