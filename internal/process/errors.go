package process

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExternalTool is the sentinel matched by every *ExternalToolError.
var ErrExternalTool = errors.New("external tool failed")

// ExternalToolError reports a process that ran and exited non-zero.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	// Output is the captured diagnostic tail.
	Output string
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + lastLines(out, 20)
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error { return ErrExternalTool }

// ExitCode returns the exit code of the first ExternalToolError in err's
// chain.
func ExitCode(err error) (int, bool) {
	var toolErr *ExternalToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode, true
	}
	return 0, false
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
