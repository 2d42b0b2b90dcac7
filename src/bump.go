package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/itzCozi/xcrel/internal/runner"
	"github.com/itzCozi/xcrel/internal/version"
)

var bumpOpts struct {
	dryRun bool
}

func runBump(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	return bump(cmd.OutOrStdout(), newRunner(), root, bumpOpts.dryRun)
}

func bump(out io.Writer, r runner.Runner, root string, dryRun bool) error {
	b := &version.Bumper{
		Git:    version.Git{Runner: r, Dir: root},
		Policy: cfg.Version.MarketingPolicy,
		Logger: log(),
		Now:    now,
		DryRun: dryRun,
	}
	res, err := b.Bump(cfg.Manifest(root))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "MARKETING_VERSION: %s -> %s\n", res.Previous.Marketing, res.Next.Marketing)
	fmt.Fprintf(out, "CURRENT_PROJECT_VERSION: %s -> %s\n", res.Previous.Project, res.Next.Project)
	if !res.Written {
		fmt.Fprintln(out, "Dry run, project not modified.")
	}
	return nil
}
