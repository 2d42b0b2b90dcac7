package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itzCozi/xcrel/internal/config"
	"github.com/itzCozi/xcrel/internal/logging"
	"github.com/itzCozi/xcrel/internal/runner"
)

var (
	verbose    bool
	projectDir string
	configPath string

	logger *zap.Logger
	cfg    = config.Default()

	// newRunner and now are replaced in tests.
	newRunner = func() runner.Runner { return runner.NewExec(logger) }
	now       = time.Now
)

func setup(cmd *cobra.Command, args []string) error {
	logger = logging.New(logging.Options{
		Verbose:       verbose,
		GitHubActions: shipOpts.githubActions,
		Output:        cmd.ErrOrStderr(),
	})

	// init writes the config, so a broken one must not stop it.
	if cmd == initCmd {
		return nil
	}

	path := configPath
	if path == "" {
		path = filepath.Join(projectDir, config.FileName)
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("loaded config", zap.String("path", path), zap.String("project", cfg.Project))
	return nil
}

func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func projectRoot() (string, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf("unable to resolve project root: %w", err)
	}
	return root, nil
}
