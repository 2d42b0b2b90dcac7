package version

import (
	"fmt"
	"strconv"

	"github.com/itzCozi/xcrel/internal/runner"
)

// Git reads source-control state through a runner.
type Git struct {
	Runner runner.Runner
	// Dir is passed as `git -C`; empty means the current directory.
	Dir string
}

func (g Git) output(args ...string) (string, error) {
	if g.Dir != "" {
		args = append([]string{"-C", g.Dir}, args...)
	}
	return g.Runner.Output(runner.Cmd("git", args...))
}

// CommitCount is `git rev-list HEAD --count`.
func (g Git) CommitCount() (int, error) {
	out, err := g.output("rev-list", "HEAD", "--count")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected commit count %q: %w", out, err)
	}
	return n, nil
}

// ShortHash is `git rev-parse --short HEAD`.
func (g Git) ShortHash() (string, error) {
	return g.output("rev-parse", "--short", "HEAD")
}

// LatestTag is `git describe --tags --abbrev=0`.
func (g Git) LatestTag() (string, error) {
	return g.output("describe", "--tags", "--abbrev=0")
}

// Signals resolves commit state, and the latest tag when withTag is set.
// Now is left for the caller to fill.
func (g Git) Signals(withTag bool) (Signals, error) {
	var sig Signals
	var err error
	if sig.CommitCount, err = g.CommitCount(); err != nil {
		return Signals{}, err
	}
	if sig.CommitHash, err = g.ShortHash(); err != nil {
		return Signals{}, err
	}
	if withTag {
		if sig.LatestTag, err = g.LatestTag(); err != nil {
			return Signals{}, err
		}
	}
	return sig, nil
}
