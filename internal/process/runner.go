package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTailSize bounds how much combined output is kept for diagnostics.
const DefaultTailSize = 16 * 1024

// Command describes one external process invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are passed verbatim.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is added on top of the parent environment.
	Env map[string]string
	// Stdout and Stderr, when set, receive the live output in addition to
	// the diagnostic capture.
	Stdout io.Writer `json:"-"`
	Stderr io.Writer `json:"-"`
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	// Output is the tail of combined stdout and stderr.
	Output   string
	Duration time.Duration
	Command  string
}

// Runner executes external commands and blocks until they exit.
//
// Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// TailSize overrides DefaultTailSize when positive.
	TailSize int
}

// NewRunner creates an ExecRunner with default settings.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command, waits for it and converts a non-zero exit into an
// *ExternalToolError.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	size := r.TailSize
	if size <= 0 {
		size = DefaultTailSize
	}
	tail := newTailBuffer(size)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = mergeEnv(os.Environ(), c.Env)
	cmd.Stdout = teeTo(tail, c.Stdout)
	cmd.Stderr = teeTo(tail, c.Stderr)

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Output:   tail.String(),
		Duration: time.Since(start),
		Command:  c.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExternalToolError{
				Tool:     c.Name,
				Args:     c.Args,
				ExitCode: res.ExitCode,
				Output:   res.Output,
			}
		}
		return nil, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}
	return res, nil
}

func teeTo(capture io.Writer, live io.Writer) io.Writer {
	if live == nil {
		return capture
	}
	return io.MultiWriter(capture, live)
}

// mergeEnv appends extra variables in key order so that the final
// environment is deterministic.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := append([]string(nil), base...)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
