// Package config loads the per-project settings for xcrel.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/itzCozi/xcrel/internal/version"
)

// FileName is looked up in the project root when no --config is given.
const FileName = ".xcrel.yaml"

// Config holds the project layout and policy knobs.
type Config struct {
	// Project is the .xcodeproj directory, relative to the project root.
	Project       string   `yaml:"project"`
	Scheme        string   `yaml:"scheme"`
	Product       string   `yaml:"product"`
	ArchiveDir    string   `yaml:"archive_dir"`
	ExportDir     string   `yaml:"export_dir"`
	ExportOptions string   `yaml:"export_options"`
	Formatter     string   `yaml:"formatter"`
	Platforms     []string `yaml:"platforms"`

	Version  VersionConfig  `yaml:"version"`
	Localize LocalizeConfig `yaml:"localize"`
}

// VersionConfig selects the marketing version policy.
type VersionConfig struct {
	MarketingPolicy version.MarketingPolicy `yaml:"marketing_policy"` // tag, bump-minor
}

// LocalizeConfig configures catalog reconciliation.
type LocalizeConfig struct {
	ReferenceKey string `yaml:"reference_key"`
	Pattern      string `yaml:"pattern"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Project:       "Roam.xcodeproj",
		Scheme:        "Roam",
		Product:       "Roam",
		ArchiveDir:    filepath.Join("Archives", "XCArchives"),
		ExportDir:     filepath.Join("Archives", "Exports"),
		ExportOptions: filepath.Join("scripts", "options.plist"),
		Formatter:     "xcbeautify",
		Platforms:     []string{"iOS", "macOS", "tvOS", "visionOS"},
		Version: VersionConfig{
			MarketingPolicy: version.FromTag,
		},
		Localize: LocalizeConfig{
			ReferenceKey: " ",
			Pattern:      "*.json",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error
	required := []struct{ key, value string }{
		{"project", c.Project},
		{"scheme", c.Scheme},
		{"product", c.Product},
		{"archive_dir", c.ArchiveDir},
		{"export_dir", c.ExportDir},
		{"export_options", c.ExportOptions},
		{"formatter", c.Formatter},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			result = multierror.Append(result, fmt.Errorf("%s must not be empty", field.key))
		}
	}
	if !strings.HasSuffix(c.Project, ".xcodeproj") {
		result = multierror.Append(result, fmt.Errorf("project %q must be an .xcodeproj", c.Project))
	}
	if !c.Version.MarketingPolicy.Valid() {
		result = multierror.Append(result, fmt.Errorf("version.marketing_policy %q must be %q or %q",
			c.Version.MarketingPolicy, version.FromTag, version.BumpMinor))
	}
	if c.Localize.ReferenceKey == "" {
		result = multierror.Append(result, fmt.Errorf("localize.reference_key must not be empty"))
	}
	if strings.TrimSpace(c.Localize.Pattern) == "" {
		result = multierror.Append(result, fmt.Errorf("localize.pattern must not be empty"))
	}
	return result.ErrorOrNil()
}

// Manifest returns the project.pbxproj path under root.
func (c Config) Manifest(root string) string {
	return filepath.Join(root, c.Project, "project.pbxproj")
}
