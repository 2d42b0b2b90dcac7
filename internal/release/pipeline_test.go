package release

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itzCozi/xcrel/internal/config"
	"github.com/itzCozi/xcrel/internal/runner"
)

func newPipeline(t *testing.T, r runner.Runner) *Pipeline {
	t.Helper()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	cfg := config.Default()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, cfg.ExportOptions), []byte("<plist/>"), 0o644))

	return &Pipeline{
		Runner:      r,
		Config:      cfg,
		Root:        root,
		Credentials: config.Credentials{APIKey: "KEY", APIIssuer: "ISSUER"},
		Logger:      zap.NewNop(),
	}
}

func mustPlatforms(t *testing.T, names ...string) []Platform {
	t.Helper()
	out, err := ParsePlatforms(names)
	require.NoError(t, err)
	return out
}

func TestParsePlatforms(t *testing.T) {
	got, err := ParsePlatforms([]string{"ios", "macOS", "IOS", " visionos "})
	require.NoError(t, err)
	assert.Equal(t, []Platform{
		{Name: "iOS", Extension: "ipa"},
		{Name: "macOS", Extension: "pkg"},
		{Name: "visionOS", Extension: "ipa"},
	}, got)
	assert.Equal(t, "visionos", got[2].Type())

	_, err = ParsePlatforms([]string{"iOS", "android"})
	assert.ErrorContains(t, err, `unknown platform "android"`)
}

func TestArchiveCommand(t *testing.T) {
	p := newPipeline(t, &runner.Recorder{})
	ios := mustPlatforms(t, "iOS")[0]

	c := p.ArchiveCommand(ios)
	assert.Equal(t, "xcodebuild archive"+
		" -project "+filepath.Join(p.Root, "Roam.xcodeproj")+
		" -scheme Roam"+
		" -archivePath "+filepath.Join(p.Root, "Archives", "XCArchives", "iOS.xcarchive")+
		" -destination generic/platform=iOS", c.Line())
	require.NotNil(t, c.Filter)
	assert.Equal(t, "xcbeautify", c.Filter.Line())
}

func TestFormatterRenderer(t *testing.T) {
	mac := mustPlatforms(t, "macOS")[0]

	p := newPipeline(t, &runner.Recorder{})
	p.GitHubActions = false
	assert.Equal(t, "xcbeautify", p.ArchiveCommand(mac).Filter.Line())
	assert.Equal(t, "xcbeautify", p.ExportCommand(mac).Filter.Line())

	p.GitHubActions = true
	assert.Equal(t, "xcbeautify --renderer github-actions", p.ArchiveCommand(mac).Filter.Line())
	assert.Equal(t, "xcbeautify --renderer github-actions", p.ExportCommand(mac).Filter.Line())
}

func TestRunSequence(t *testing.T) {
	rec := &runner.Recorder{}
	p := newPipeline(t, rec)
	plan := Plan{Archive: true, Publish: true, Platforms: mustPlatforms(t, "iOS", "macOS")}

	require.NoError(t, p.Run(plan))

	exports := filepath.Join(p.Root, "Archives", "Exports")
	archives := filepath.Join(p.Root, "Archives", "XCArchives")
	options := filepath.Join(p.Root, "scripts", "options.plist")
	assert.Equal(t, []string{
		"xcodebuild archive -project " + filepath.Join(p.Root, "Roam.xcodeproj") + " -scheme Roam -archivePath " + filepath.Join(archives, "iOS.xcarchive") + " -destination generic/platform=iOS",
		"xcodebuild archive -project " + filepath.Join(p.Root, "Roam.xcodeproj") + " -scheme Roam -archivePath " + filepath.Join(archives, "macOS.xcarchive") + " -destination generic/platform=macOS",
		"xcodebuild -exportArchive -archivePath " + filepath.Join(archives, "iOS.xcarchive") + " -exportPath " + filepath.Join(exports, "iOS") + " -exportOptionsPlist " + options,
		"xcrun altool --validate-app -f " + filepath.Join(exports, "iOS", "Roam.ipa") + " -t ios --apiKey KEY --apiIssuer ISSUER",
		"xcrun altool --upload-app -f " + filepath.Join(exports, "iOS", "Roam.ipa") + " -t ios --apiKey KEY --apiIssuer ISSUER",
		"xcodebuild -exportArchive -archivePath " + filepath.Join(archives, "macOS.xcarchive") + " -exportPath " + filepath.Join(exports, "macOS") + " -exportOptionsPlist " + options,
		"xcrun altool --validate-app -f " + filepath.Join(exports, "macOS", "Roam.pkg") + " -t macos --apiKey KEY --apiIssuer ISSUER",
		"xcrun altool --upload-app -f " + filepath.Join(exports, "macOS", "Roam.pkg") + " -t macos --apiKey KEY --apiIssuer ISSUER",
	}, rec.Lines())
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	rec := &runner.Recorder{Fail: func(c runner.Command) int {
		if len(c.Args) > 1 && c.Args[1] == "--validate-app" {
			return 176
		}
		return 0
	}}
	p := newPipeline(t, rec)
	plan := Plan{Publish: true, Platforms: mustPlatforms(t, "iOS", "tvOS")}

	err := p.Run(plan)
	require.Error(t, err)
	assert.ErrorContains(t, err, "validate iOS")
	assert.Equal(t, 176, runner.ExitStatus(err))
	assert.Len(t, rec.Commands, 2, "upload and tvOS must not run after the failed validation")
}

func TestArchiveOnlyNeedsNoCredentials(t *testing.T) {
	rec := &runner.Recorder{}
	p := newPipeline(t, rec)
	p.Credentials = config.Credentials{}

	require.NoError(t, p.Run(Plan{Archive: true, Platforms: mustPlatforms(t, "tvOS")}))
	assert.Len(t, rec.Commands, 1)
}

func TestPreflight(t *testing.T) {
	t.Run("no platforms", func(t *testing.T) {
		rec := &runner.Recorder{}
		p := newPipeline(t, rec)
		err := p.Run(Plan{Archive: true})
		assert.ErrorContains(t, err, "no platforms")
		assert.Empty(t, rec.Commands)
	})

	t.Run("publish without credentials", func(t *testing.T) {
		rec := &runner.Recorder{}
		p := newPipeline(t, rec)
		p.Credentials = config.Credentials{APIKey: "KEY"}
		err := p.Run(Plan{Archive: true, Publish: true, Platforms: mustPlatforms(t, "iOS")})
		assert.ErrorContains(t, err, "XCODE_API_ISSUER")
		assert.Empty(t, rec.Commands, "nothing runs when publishing cannot succeed")
	})

	t.Run("publish without export options", func(t *testing.T) {
		rec := &runner.Recorder{}
		p := newPipeline(t, rec)
		require.NoError(t, os.Remove(filepath.Join(p.Root, p.Config.ExportOptions)))
		err := p.Run(Plan{Publish: true, Platforms: mustPlatforms(t, "iOS")})
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, rec.Commands)
	})

	t.Run("nothing to do", func(t *testing.T) {
		rec := &runner.Recorder{}
		p := newPipeline(t, rec)
		assert.NoError(t, p.Run(Plan{}))
		assert.Empty(t, rec.Commands)
	})
}

func TestRunProgress(t *testing.T) {
	var progress bytes.Buffer
	p := newPipeline(t, &runner.Recorder{})
	p.Progress = &progress

	require.NoError(t, p.Run(Plan{Archive: true, Platforms: mustPlatforms(t, "iOS", "macOS")}))
	assert.Contains(t, progress.String(), "2/2")
}
