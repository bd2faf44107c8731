package cli

import (
	"github.com/spf13/cobra"

	"github.com/specialistvlad/shipgrid/internal/app"
)

// buildConfig layers command-line flags over the settings file and validates
// the result. Only flags the user actually set override a setting.
func buildConfig(cmd *cobra.Command, targets []string) (*app.Config, error) {
	settingsPath, _ := cmd.Flags().GetString("config")
	settings, err := app.LoadSettings(settingsPath)
	if err != nil {
		return nil, usageError(err)
	}

	cfg := settings.Config()
	cfg.Targets = targets
	changedString(cmd, "file", &cfg.BuildFile)
	changedString(cmd, "log-level", &cfg.LogLevel)
	changedString(cmd, "log-format", &cfg.LogFormat)
	changedString(cmd, "engine", &cfg.Engine)
	changedString(cmd, "trace-file", &cfg.TraceFile)
	changedInt(cmd, "workers", &cfg.Workers)
	changedInt(cmd, "engine-jobs", &cfg.EngineJobs)
	changedInt(cmd, "status-port", &cfg.StatusPort)
	if cmd.Flags().Changed("compose") {
		cfg.Compose, _ = cmd.Flags().GetStringSlice("compose")
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	cfg.Vars, _ = cmd.Flags().GetStringToString("var")

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return validated, nil
}

func changedString(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

func changedInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}
