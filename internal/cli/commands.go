package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/shipgrid/internal/app"
	"github.com/specialistvlad/shipgrid/internal/hcl"
	"github.com/specialistvlad/shipgrid/internal/pipeline"
)

func newRunCmd(logW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run TASK [TASK...]",
		Short: "Run tasks and everything they depend on",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			a, err := newApp(logW, cfg)
			if err != nil {
				return err
			}
			if cfg.DryRun {
				if err := a.Plan(cmd.OutOrStdout()); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				return nil
			}

			res, err := a.Run(cmd.Context())
			if err != nil {
				code := 1
				if res != nil && res.ExitCode != 0 {
					code = res.ExitCode
				}
				return &ExitError{Code: code, Message: err.Error()}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Bool("dry-run", false, "print the execution plan without running anything")
	flags.Int("workers", 0, "number of concurrent workers (default min(NumCPU, 4))")
	flags.Int("engine-jobs", 0, "maximum concurrent image builds (default 2)")
	flags.String("engine", "", "container engine executable (default docker)")
	flags.StringSlice("compose", nil, "compose invocation prefix (default docker,compose)")
	flags.Int("status-port", 0, "port for the HTTP status server. 0 is disabled.")
	flags.String("trace-file", "", "write OpenTelemetry spans to this file")
	return cmd
}

func newTasksCmd(logW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List declared tasks by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, nil)
			if err != nil {
				return err
			}
			a, err := newApp(logW, cfg)
			if err != nil {
				return err
			}
			return a.ListTasks(cmd.OutOrStdout())
		},
	}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in declaration to a build file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				path = app.DefaultBuildFile
			}
			force, _ := cmd.Flags().GetBool("force")

			flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			f, err := os.OpenFile(path, flag, 0o644)
			if err != nil {
				if errors.Is(err, fs.ErrExist) {
					return &ExitError{Code: 1, Message: fmt.Sprintf("%s already exists; use --force to overwrite", path)}
				}
				return &ExitError{Code: 1, Message: err.Error()}
			}
			defer f.Close()

			if err := hcl.Write(f, pipeline.Default()); err != nil {
				return &ExitError{Code: 1, Message: fmt.Sprintf("writing %s: %v", path, err)}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing build file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shipgrid %s\n", Version)
		},
	}
}

// newApp loads the declaration with the configured variable overrides.
func newApp(logW io.Writer, cfg *app.Config) (*app.App, error) {
	loader := hcl.NewLoader()
	loader.Vars = cfg.Vars
	a, err := app.NewApp(logW, cfg, loader)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: err.Error()}
	}
	return a, nil
}
