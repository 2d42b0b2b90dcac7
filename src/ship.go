package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/itzCozi/xcrel/internal/config"
	"github.com/itzCozi/xcrel/internal/release"
	"github.com/itzCozi/xcrel/internal/runner"
)

var shipOpts struct {
	archive       bool
	publish       bool
	bump          bool
	githubActions bool
	dryRun        bool
	platforms     platformList
}

func runShip(cmd *cobra.Command, args []string) error {
	if !shipOpts.archive && !shipOpts.publish && !shipOpts.bump {
		return errors.New("nothing to do: pass --archive, --publish or --bump")
	}

	names := append(append([]string{}, shipOpts.platforms...), args...)
	if len(names) == 0 {
		names = cfg.Platforms
	}
	platforms, err := release.ParsePlatforms(names)
	if err != nil {
		return err
	}

	root, err := projectRoot()
	if err != nil {
		return err
	}

	var creds config.Credentials
	if shipOpts.publish {
		if creds, err = config.LoadCredentials(); err != nil {
			return err
		}
	}

	r := newRunner()
	var progress io.Writer
	if shipOpts.dryRun {
		r = &runner.DryRun{Runner: r, Out: cmd.OutOrStdout()}
	} else if !shipOpts.githubActions {
		progress = cmd.ErrOrStderr()
	}

	pipeline := &release.Pipeline{
		Runner:        r,
		Config:        cfg,
		Root:          root,
		GitHubActions: shipOpts.githubActions,
		Credentials:   creds,
		Logger:        log(),
		Progress:      progress,
	}
	plan := release.Plan{
		Archive:   shipOpts.archive,
		Publish:   shipOpts.publish,
		Platforms: platforms,
	}
	if err := pipeline.Preflight(plan); err != nil {
		return err
	}

	if shipOpts.bump {
		if err := bump(cmd.OutOrStdout(), r, root, shipOpts.dryRun); err != nil {
			return err
		}
	}

	if err := pipeline.Run(plan); err != nil {
		return err
	}
	if plan.Archive || plan.Publish {
		fmt.Fprintf(cmd.OutOrStdout(), "Shipped %d platform(s).\n", len(platforms))
	}
	return nil
}
