package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

// Version is reported by the version command. It is overridden at link time.
var Version = "dev"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks a bad invocation. Usage errors exit with code 2.
func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Execute runs the command tree. Command output goes to outW; logs and
// external tool output go to errW. Every returned error is an *ExitError.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := NewRootCmd(errW)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Cobra's own errors (unknown commands, flags, arity) are usage errors.
	return usageError(err)
}

// NewRootCmd builds the command tree. logW receives logs.
func NewRootCmd(logW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipgrid",
		Short: "shipgrid: dependency-ordered build, image and stack tasks",
		Long: "shipgrid runs a declared graph of build tasks: it assembles runnable archives,\n" +
			"builds container images from them and brings up a compose stack, running each\n" +
			"task once and only after its dependencies succeeded.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "settings file (default $XDG_CONFIG_HOME/shipgrid/config.yaml)")
	flags.StringP("file", "f", "", "build declaration file or directory (default shipgrid.hcl)")
	flags.StringToString("var", nil, "override a declared variable, e.g. --var version=1.1")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")

	cmd.AddCommand(newRunCmd(logW))
	cmd.AddCommand(newTasksCmd(logW))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
