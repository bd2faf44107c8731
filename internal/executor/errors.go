package executor

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/shipgrid/internal/process"
)

// ErrRunFailed is matched by every *RunError.
var ErrRunFailed = errors.New("run failed")

// RunError is the single failure raised for a run. It names the first task
// that failed and wraps its cause; tasks that never started are listed in
// Skipped.
type RunError struct {
	Task    string
	Err     error
	Skipped []string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

func (e *RunError) Unwrap() []error { return []error{ErrRunFailed, e.Err} }

// ExitCode maps a run error to a process exit code: the code of an external
// tool anywhere in the chain, otherwise 1. A nil error maps to 0. A tool
// killed by a signal reports -1 and maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := process.ExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}
