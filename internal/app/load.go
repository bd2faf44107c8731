package app

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/specialistvlad/shipgrid/internal/ctxlog"
	"github.com/specialistvlad/shipgrid/internal/pipeline"
)

// loadModel reads the configured build file. When the default file is
// absent the built-in declaration is used instead; an explicitly named file
// must exist.
func (a *App) loadModel(ctx context.Context, loader config.Loader) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	path := a.config.BuildFile
	logger.Debug("Loading build declaration...", "file", path)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultBuildFile {
			if len(a.config.Vars) > 0 {
				logger.Warn("Variables are ignored by the built-in declaration.", "count", len(a.config.Vars))
			}
			logger.Info("No build file found, using built-in declaration.", "file", path)
			return pipeline.Default(), nil
		}
		return nil, err
	}

	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Info("Build declaration loaded.", "file", path, "tasks", len(m.Tasks))
	return m, nil
}
