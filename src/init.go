package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itzCozi/xcrel/internal/config"
)

var initOpts struct {
	project string
	force   bool
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = filepath.Join(projectDir, config.FileName)
	}
	if _, err := os.Stat(path); err == nil && !initOpts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	c := config.Default()
	if initOpts.project != "" {
		c.Project = initOpts.project
		name := strings.TrimSuffix(filepath.Base(c.Project), ".xcodeproj")
		c.Scheme, c.Product = name, name
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.Save(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log().Debug("wrote config", zap.String("path", path))

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
