package graph

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/shipgrid/internal/task"
)

// Graph is the set of declared tasks and their dependency edges. It is built
// once per invocation and sealed on first resolution; after that it only
// serves reads. All methods are safe for concurrent use.
type Graph struct {
	mutex  sync.RWMutex
	tasks  map[string]*task.Task
	order  []*task.Task // declaration order
	sealed bool
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		tasks: make(map[string]*task.Task),
	}
}

// AddTask registers a new task. Dependencies may name tasks that are added
// later; they are checked at resolve time.
func (g *Graph) AddTask(name, group, description string, deps []string, action task.Action) (*task.Task, error) {
	return g.Add(task.New(name, group, description, deps, action))
}

// Add registers an already constructed task.
func (g *Graph) Add(t *task.Task) (*task.Task, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("task name is required")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.sealed {
		return nil, fmt.Errorf("%w: cannot add %q", ErrSealed, t.Name)
	}
	if _, ok := g.tasks[t.Name]; ok {
		return nil, &DuplicateTaskError{Name: t.Name}
	}

	t.SetIndex(len(g.order))
	g.tasks[t.Name] = t
	g.order = append(g.order, t)
	return t, nil
}

// Task returns a task by name.
func (g *Graph) Task(name string) (*task.Task, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	t, ok := g.tasks[name]
	return t, ok
}

// Tasks returns all tasks in declaration order.
func (g *Graph) Tasks() []*task.Task {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]*task.Task, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of declared tasks.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Dependents returns the names of tasks that list name as a dependency, in
// declaration order.
func (g *Graph) Dependents(name string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []string
	for _, t := range g.order {
		for _, dep := range t.Dependencies {
			if dep == name {
				out = append(out, t.Name)
				break
			}
		}
	}
	return out
}

// Resolve returns the closure of the given targets: the targets plus every
// task they transitively depend on, in declaration order. It fails with
// UnknownTaskError for any missing name and CycleError if the closure
// contains a cycle. The graph is sealed afterwards.
func (g *Graph) Resolve(targets ...string) ([]*task.Task, error) {
	g.mutex.Lock()
	g.sealed = true
	g.mutex.Unlock()

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if len(targets) == 0 {
		return nil, fmt.Errorf("at least one target task is required")
	}

	// Depth-first search with two mark sets:
	// visiting: tasks on the current recursion stack.
	// visited: tasks fully explored and known to be cycle-free.
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string

	var visit func(name, referencedBy string) error
	visit = func(name, referencedBy string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return &CycleError{Path: cyclePath(stack, name)}
		}
		t, ok := g.tasks[name]
		if !ok {
			return &UnknownTaskError{Name: name, ReferencedBy: referencedBy}
		}

		visiting[name] = true
		stack = append(stack, name)
		for _, dep := range t.Dependencies {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, name)
		visited[name] = true
		return nil
	}

	for _, target := range targets {
		if err := visit(target, ""); err != nil {
			return nil, err
		}
	}

	closure := make([]*task.Task, 0, len(visited))
	for _, t := range g.order {
		if visited[t.Name] {
			closure = append(closure, t)
		}
	}
	return closure, nil
}

// Validate resolves every declared task, surfacing unknown dependencies and
// cycles anywhere in the graph before any execution begins.
func (g *Graph) Validate() error {
	g.mutex.RLock()
	names := make([]string, 0, len(g.order))
	for _, t := range g.order {
		names = append(names, t.Name)
	}
	g.mutex.RUnlock()

	if len(names) == 0 {
		return nil
	}
	_, err := g.Resolve(names...)
	return err
}

// cyclePath cuts the recursion stack at the first occurrence of the repeated
// task and closes the loop.
func cyclePath(stack []string, repeated string) []string {
	for i, name := range stack {
		if name == repeated {
			path := append([]string(nil), stack[i:]...)
			return append(path, repeated)
		}
	}
	return []string{repeated, repeated}
}
