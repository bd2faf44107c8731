/*
Package executor runs a resolved task closure.

A single coordinator goroutine owns scheduling. It keeps a ready queue ordered
by declaration index and hands tasks to a fixed pool of workers over
readyChan; workers report back on a results channel. Dependency counters are
only touched by the coordinator, so a task is dispatched exactly once, after
every dependency reported done.

On the first failure the coordinator stops dispatching, skips the failed
task's dependents, waits for in-flight tasks and returns a *RunError. Actions
always run on a context detached from the caller's cancellation: an abort
never kills an external process half way through a container build.
*/
package executor
