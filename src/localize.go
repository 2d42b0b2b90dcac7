package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itzCozi/xcrel/internal/localize"
)

var localizeOpts struct {
	pattern      string
	referenceKey string
}

func runLocalizeMerge(cmd *cobra.Command, args []string) error {
	dir, seed, output := args[0], args[1], args[2]

	pattern := cfg.Localize.Pattern
	if localizeOpts.pattern != "" {
		pattern = localizeOpts.pattern
	}
	m := &localize.Merger{Pattern: pattern, Logger: log()}
	report, err := m.Merge(dir, seed, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d translation(s) from %d file(s) into %s", report.Applied, len(report.Files), output)
	if report.Dropped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d unknown key(s) ignored)", report.Dropped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func runLocalizeReport(cmd *cobra.Command, args []string) error {
	seed, output := args[0], args[1]

	key := cfg.Localize.ReferenceKey
	if localizeOpts.referenceKey != "" {
		key = localizeOpts.referenceKey
	}
	r := &localize.Reporter{ReferenceKey: key, Logger: log()}
	missing, err := r.Report(seed, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d string(s) need translations, written to %s\n", len(missing), output)
	return nil
}
