package release

import (
	"fmt"
	"strings"
)

// Platform is an Xcode destination platform.
type Platform struct {
	Name string // as xcodebuild spells it, e.g. "visionOS"
	// Extension of the exported package uploaded by altool.
	Extension string
}

// Type is the altool -t value.
func (p Platform) Type() string {
	return strings.ToLower(p.Name)
}

func (p Platform) String() string { return p.Name }

var platforms = []Platform{
	{Name: "iOS", Extension: "ipa"},
	{Name: "macOS", Extension: "pkg"},
	{Name: "tvOS", Extension: "ipa"},
	{Name: "visionOS", Extension: "ipa"},
	{Name: "watchOS", Extension: "ipa"},
}

// PlatformNames lists the accepted platform names.
func PlatformNames() []string {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name)
	}
	return names
}

// ParsePlatform matches name case-insensitively.
func ParsePlatform(name string) (Platform, error) {
	for _, p := range platforms {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unknown platform %q (expected one of %s)", name, strings.Join(PlatformNames(), ", "))
}

// ParsePlatforms parses names in order, dropping duplicates.
func ParsePlatforms(names []string) ([]Platform, error) {
	seen := make(map[string]bool, len(names))
	var out []Platform
	for _, name := range names {
		p, err := ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out, nil
}
