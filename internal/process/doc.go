/*
Package process abstracts external process execution.

Every invocation of docker, compose or the test runner goes through the
Runner interface so that the image, stack and executor packages can be
tested without real processes.

	r := process.NewRunner()
	res, err := r.Run(ctx, process.Command{Name: "docker", Args: []string{"version"}})

A process that starts and exits non-zero produces an *ExternalToolError that
carries the exit code and the tail of its combined output; the Result is
returned alongside it. Failing to start at all is a plain wrapped error.

For tests, use MockRunner:

	mock := &process.MockRunner{
	    RunFunc: func(ctx context.Context, cmd process.Command) (*process.Result, error) {
	        return &process.Result{ExitCode: 0}, nil
	    },
	}

Runners never kill a process on their own; cancellation is whatever the
caller's context says. The executor deliberately hands actions a context
that is detached from run cancellation.
*/
package process
