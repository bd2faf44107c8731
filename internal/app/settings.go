package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are per-user tool defaults read from a YAML file. Command-line
// flags take precedence over every field.
type Settings struct {
	BuildFile  string   `yaml:"build_file"`
	Workers    int      `yaml:"workers"`
	EngineJobs int      `yaml:"engine_jobs"`
	Engine     string   `yaml:"engine"`
	Compose    []string `yaml:"compose"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
	StatusPort int      `yaml:"status_port"`
	TraceFile  string   `yaml:"trace_file"`
}

// DefaultSettingsPath resolves $XDG_CONFIG_HOME/shipgrid/config.yaml or
// ~/.config/shipgrid/config.yaml.
func DefaultSettingsPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "shipgrid", "config.yaml")
}

// LoadSettings reads YAML settings from path. If path is empty the default
// location is used, and a missing default file yields zero Settings. A
// missing explicit path is an error.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(content, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Config returns the settings as a base Config for flags to override.
func (s Settings) Config() Config {
	return Config{
		BuildFile:  s.BuildFile,
		Workers:    s.Workers,
		EngineJobs: s.EngineJobs,
		Engine:     s.Engine,
		Compose:    s.Compose,
		LogLevel:   s.LogLevel,
		LogFormat:  s.LogFormat,
		StatusPort: s.StatusPort,
		TraceFile:  s.TraceFile,
	}
}
