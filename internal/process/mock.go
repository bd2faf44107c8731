package process

import (
	"context"
	"fmt"
	"sync"
)

// MockRunner is a test double for Runner.
//
// If RunFunc is nil every command succeeds with exit code 0. Calls are
// recorded in invocation order.
type MockRunner struct {
	RunFunc func(ctx context.Context, cmd Command) (*Result, error)

	mu    sync.Mutex
	calls []Command
}

// Run records the call and delegates to RunFunc.
func (m *MockRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	m.mu.Unlock()

	if m.RunFunc == nil {
		return &Result{Command: cmd.String()}, nil
	}
	return m.RunFunc(ctx, cmd)
}

// Calls returns a copy of the recorded commands.
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

// Exit builds a result for the given exit code, returning an
// *ExternalToolError for non-zero codes the same way ExecRunner does.
func Exit(cmd Command, code int, output string) (*Result, error) {
	res := &Result{ExitCode: code, Output: output, Command: cmd.String()}
	if code == 0 {
		return res, nil
	}
	return res, &ExternalToolError{Tool: cmd.Name, Args: cmd.Args, ExitCode: code, Output: output}
}

// Unexpected is a convenience RunFunc result for commands a test did not plan for.
func Unexpected(cmd Command) (*Result, error) {
	return nil, fmt.Errorf("unexpected command: %s", cmd)
}
