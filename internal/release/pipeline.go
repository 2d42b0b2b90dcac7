// Package release drives xcodebuild and altool to archive, export, validate
// and upload an app for each target platform.
package release

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/itzCozi/xcrel/internal/config"
	"github.com/itzCozi/xcrel/internal/runner"
)

// Plan selects the steps of a run.
type Plan struct {
	Archive   bool
	Publish   bool
	Platforms []Platform
}

func (p Plan) steps() int {
	n := 0
	if p.Archive {
		n += len(p.Platforms)
	}
	if p.Publish {
		n += 3 * len(p.Platforms)
	}
	return n
}

// Pipeline runs a Plan. Commands run one at a time and the first failure stops the run.
type Pipeline struct {
	Runner runner.Runner
	Config config.Config
	// Root is the project root every configured path is relative to.
	Root string
	// GitHubActions passes --renderer github-actions to the formatter.
	GitHubActions bool
	// Credentials are required when publishing.
	Credentials config.Credentials
	Logger      *zap.Logger
	// Progress receives the progress bar; nil hides it.
	Progress io.Writer
}

func (p *Pipeline) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

// ArchivePath is where the .xcarchive of platform is written.
func (p *Pipeline) ArchivePath(pl Platform) string {
	return filepath.Join(p.path(p.Config.ArchiveDir), pl.Name+".xcarchive")
}

// ExportPath is the directory the archive of platform is exported to.
func (p *Pipeline) ExportPath(pl Platform) string {
	return filepath.Join(p.path(p.Config.ExportDir), pl.Name)
}

// PackagePath is the exported .ipa or .pkg of platform.
func (p *Pipeline) PackagePath(pl Platform) string {
	return filepath.Join(p.ExportPath(pl), p.Config.Product+"."+pl.Extension)
}

func (p *Pipeline) formatter() *runner.Command {
	f := &runner.Command{Name: p.Config.Formatter}
	if p.GitHubActions {
		f.Args = []string{"--renderer", "github-actions"}
	}
	return f
}

// ArchiveCommand is `xcodebuild archive ... | formatter`.
func (p *Pipeline) ArchiveCommand(pl Platform) runner.Command {
	c := runner.Cmd("xcodebuild", "archive",
		"-project", p.path(p.Config.Project),
		"-scheme", p.Config.Scheme,
		"-archivePath", p.ArchivePath(pl),
		"-destination", "generic/platform="+pl.Name,
	)
	c.Filter = p.formatter()
	return c
}

// ExportCommand is `xcodebuild -exportArchive ... | formatter`.
func (p *Pipeline) ExportCommand(pl Platform) runner.Command {
	c := runner.Cmd("xcodebuild", "-exportArchive",
		"-archivePath", p.ArchivePath(pl),
		"-exportPath", p.ExportPath(pl),
		"-exportOptionsPlist", p.path(p.Config.ExportOptions),
	)
	c.Filter = p.formatter()
	return c
}

// AltoolCommand is `xcrun altool <action> ...`, action being --validate-app or --upload-app.
func (p *Pipeline) AltoolCommand(action string, pl Platform) runner.Command {
	return runner.Cmd("xcrun", "altool", action,
		"-f", p.PackagePath(pl),
		"-t", pl.Type(),
		"--apiKey", p.Credentials.APIKey,
		"--apiIssuer", p.Credentials.APIIssuer,
	)
}

// Preflight checks a plan before anything runs.
func (p *Pipeline) Preflight(plan Plan) error {
	if !plan.Archive && !plan.Publish {
		return nil
	}
	if len(plan.Platforms) == 0 {
		return errors.New("no platforms selected")
	}
	if !plan.Publish {
		return nil
	}
	if p.Credentials.APIKey == "" || p.Credentials.APIIssuer == "" {
		return errors.New("publishing requires XCODE_API_KEY and XCODE_API_ISSUER")
	}
	if _, err := os.Stat(p.path(p.Config.ExportOptions)); err != nil {
		return fmt.Errorf("export options: %w", err)
	}
	if _, err := p.Credentials.KeyFile(); err != nil {
		p.log().Warn("App Store Connect API key file not found, altool may fail to authenticate", zap.Error(err))
	}
	return nil
}

// Run archives every platform, then publishes every platform.
func (p *Pipeline) Run(plan Plan) error {
	if err := p.Preflight(plan); err != nil {
		return err
	}
	if plan.steps() == 0 {
		return nil
	}
	bar := p.progress(plan.steps())
	defer bar.Finish()

	if plan.Archive {
		for _, pl := range plan.Platforms {
			bar.Describe("archive " + pl.Name)
			if err := p.Archive(pl); err != nil {
				return err
			}
			_ = bar.Add(1)
		}
	}
	if plan.Publish {
		for _, pl := range plan.Platforms {
			if err := p.publish(pl, bar); err != nil {
				return err
			}
		}
	}
	return nil
}

// Archive builds and archives the app for pl.
func (p *Pipeline) Archive(pl Platform) error {
	log := p.log().With(zap.String("platform", pl.Name))
	log.Info("archiving application")
	if err := p.Runner.Run(p.ArchiveCommand(pl)); err != nil {
		return fmt.Errorf("archive %s: %w", pl.Name, err)
	}
	log.Info("archive succeeded", zap.String("archive", p.ArchivePath(pl)))
	return nil
}

// publish exports, validates and uploads the archive of pl.
func (p *Pipeline) publish(pl Platform, bar *progressbar.ProgressBar) error {
	log := p.log().With(zap.String("platform", pl.Name))
	steps := []struct {
		name string
		cmd  runner.Command
	}{
		{"export", p.ExportCommand(pl)},
		{"validate", p.AltoolCommand("--validate-app", pl)},
		{"upload", p.AltoolCommand("--upload-app", pl)},
	}
	for _, step := range steps {
		bar.Describe(step.name + " " + pl.Name)
		log.Info(step.name, zap.String("package", p.PackagePath(pl)))
		if err := p.Runner.Run(step.cmd); err != nil {
			return fmt.Errorf("%s %s: %w", step.name, pl.Name, err)
		}
		_ = bar.Add(1)
	}
	log.Info("publish succeeded")
	return nil
}

func (p *Pipeline) progress(total int) *progressbar.ProgressBar {
	w := p.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(p.Progress != nil),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
