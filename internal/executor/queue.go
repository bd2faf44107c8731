package executor

import (
	"sort"

	"github.com/specialistvlad/shipgrid/internal/task"
)

// readyQueue holds tasks whose dependencies are all done, ordered by
// declaration index so dispatch is deterministic when workers are scarce.
type readyQueue []*task.Task

func (q *readyQueue) push(t *task.Task) {
	i := sort.Search(len(*q), func(i int) bool { return (*q)[i].Index() > t.Index() })
	*q = append(*q, nil)
	copy((*q)[i+1:], (*q)[i:])
	(*q)[i] = t
}

func (q *readyQueue) pop() *task.Task {
	t := (*q)[0]
	*q = (*q)[1:]
	return t
}

func (q readyQueue) Len() int { return len(q) }

// topoOrder returns the closure in Kahn order, breaking ties by declaration
// index. It is the order a single worker executes the closure in.
func topoOrder(closure []*task.Task) []*task.Task {
	remaining, dependents := edges(closure)

	var q readyQueue
	for _, t := range closure {
		if remaining[t.Name] == 0 {
			q.push(t)
		}
	}

	out := make([]*task.Task, 0, len(closure))
	for q.Len() > 0 {
		t := q.pop()
		out = append(out, t)
		for _, d := range dependents[t.Name] {
			remaining[d.Name]--
			if remaining[d.Name] == 0 {
				q.push(d)
			}
		}
	}
	return out
}

// edges computes, for a resolved closure, the count of unfinished
// dependencies per task and the dependents of each task.
func edges(closure []*task.Task) (map[string]int, map[string][]*task.Task) {
	byName := make(map[string]*task.Task, len(closure))
	for _, t := range closure {
		byName[t.Name] = t
	}

	remaining := make(map[string]int, len(closure))
	dependents := make(map[string][]*task.Task, len(closure))
	for _, t := range closure {
		seen := make(map[string]bool, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := byName[dep]; !ok {
				continue
			}
			remaining[t.Name]++
			dependents[dep] = append(dependents[dep], t)
		}
	}
	return remaining, dependents
}
