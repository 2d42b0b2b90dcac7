package version

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	marketingKey = "MARKETING_VERSION"
	projectKey   = "CURRENT_PROJECT_VERSION"
)

var (
	// ErrManifestFieldMissing means a version key was not found in the manifest.
	ErrManifestFieldMissing = errors.New("manifest field missing")
	// ErrInvalidVersion means a derived value would not be found again by the manifest patterns.
	ErrInvalidVersion = errors.New("invalid version")
)

// Record is the pair of version fields stored in the manifest.
type Record struct {
	Marketing string // MAJOR.MINOR
	Project   string // A.B.C
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Marketing, r.Project)
}

// Validate checks that both fields keep the shape the manifest patterns expect.
func (r Record) Validate() error {
	if !marketingValueRegex.MatchString(r.Marketing) {
		return fmt.Errorf("%w: %s %q is not MAJOR.MINOR", ErrInvalidVersion, marketingKey, r.Marketing)
	}
	if !projectValueRegex.MatchString(r.Project) {
		return fmt.Errorf("%w: %s %q is not A.B.C", ErrInvalidVersion, projectKey, r.Project)
	}
	return nil
}

// Manifest is a project.pbxproj read into memory.
type Manifest struct {
	Path    string
	Current Record

	content string
	mode    os.FileMode
}

// ReadManifest loads path and locates both version fields. Nothing is
// written; a missing field is reported before any mutation can happen.
func ReadManifest(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	current, err := ParseManifest(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Path:    path,
		Current: current,
		content: string(data),
		mode:    info.Mode().Perm(),
	}, nil
}

// ParseManifest returns the first MARKETING_VERSION and CURRENT_PROJECT_VERSION values in content.
func ParseManifest(content string) (Record, error) {
	var missing []string
	var r Record
	if m := marketingVersionRegex.FindStringSubmatch(content); m != nil {
		r.Marketing = m[1]
	} else {
		missing = append(missing, marketingKey)
	}
	if m := projectVersionRegex.FindStringSubmatch(content); m != nil {
		r.Project = m[1]
	} else {
		missing = append(missing, projectKey)
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrManifestFieldMissing, strings.Join(missing, ", "))
	}
	return r, nil
}

// Render returns the manifest content with every exact `KEY = old;`
// occurrence replaced by `KEY = new;`. Lines carrying other values are left alone.
func (m *Manifest) Render(next Record) (string, error) {
	if err := next.Validate(); err != nil {
		return "", err
	}
	out := strings.ReplaceAll(m.content,
		assignment(marketingKey, m.Current.Marketing),
		assignment(marketingKey, next.Marketing))
	out = strings.ReplaceAll(out,
		assignment(projectKey, m.Current.Project),
		assignment(projectKey, next.Project))
	return out, nil
}

// Write rewrites the manifest in place with next. It is the only mutation.
func (m *Manifest) Write(next Record) error {
	out, err := m.Render(next)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.Path, []byte(out), m.mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.Path, err)
	}
	m.content = out
	m.Current = next
	return nil
}

func assignment(key, value string) string {
	return key + " = " + value + ";"
}
