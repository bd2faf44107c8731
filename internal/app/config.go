package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/shipgrid/internal/executor"
	"github.com/specialistvlad/shipgrid/internal/image"
)

// DefaultBuildFile is the declaration read when no other file is named.
const DefaultBuildFile = "shipgrid.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildFile string // hcl file or directory
	Targets   []string
	DryRun    bool
	Vars      map[string]string

	Workers    int
	EngineJobs int
	Engine     string
	Compose    []string

	LogFormat  string
	LogLevel   string
	StatusPort int
	TraceFile  string
}

// NewConfig validates cfg and fills defaults for zero fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildFile == "" {
		cfg.BuildFile = DefaultBuildFile
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid workers %d: must be positive", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = executor.DefaultWorkers()
	}
	if cfg.EngineJobs < 0 {
		return nil, fmt.Errorf("invalid engine-jobs %d: must be positive", cfg.EngineJobs)
	}
	if cfg.EngineJobs == 0 {
		cfg.EngineJobs = image.DefaultJobs
	}
	if cfg.Engine == "" {
		cfg.Engine = image.DefaultEngine
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("invalid status-port %d", cfg.StatusPort)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
