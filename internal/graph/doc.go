// Package graph holds the task graph: the set of named tasks and the
// dependency edges between them.
//
// # Lifecycle
//
//  1. **Construction:** the pipeline package adds every declared task with
//     AddTask. Names must be unique; dependencies may be forward references.
//  2. **Resolution:** Resolve computes the closure of one or more targets.
//     The first call seals the graph, so no task can be registered while a
//     run is in progress.
//  3. **Execution:** the executor reads the resolved tasks and drives their
//     state machines. The graph itself holds no execution state.
//
// # Validation
//
// Resolve walks dependencies depth-first with visiting/visited marks. Hitting
// a task that is still on the recursion stack is a cycle; the stack slice
// from that task onward is reported in the CycleError. A dependency name with
// no declared task is reported as an UnknownTaskError naming the referrer.
package graph
