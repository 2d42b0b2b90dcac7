// Package version derives the next marketing and build versions of an Xcode
// project and rewrites them in its project.pbxproj.
package version

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// MarketingPolicy selects how the next MARKETING_VERSION is computed.
type MarketingPolicy string

const (
	// FromTag uses the latest git tag with its leading "v" removed.
	FromTag MarketingPolicy = "tag"
	// BumpMinor keeps MAJOR and increments MINOR.
	BumpMinor MarketingPolicy = "bump-minor"
)

// ErrInvalidTag means the latest tag cannot serve as a MAJOR.MINOR marketing version.
var ErrInvalidTag = errors.New("invalid release tag")

// Valid reports whether p is a known policy.
func (p MarketingPolicy) Valid() bool {
	return p == FromTag || p == BumpMinor
}

// NeedsTag reports whether the policy reads the latest tag.
func (p MarketingPolicy) NeedsTag() bool {
	return p == FromTag
}

// Signals is the environment a derivation depends on. The caller resolves it
// once so derivation itself stays pure.
type Signals struct {
	Now         time.Time
	CommitCount int
	CommitHash  string // short hash, hexadecimal
	LatestTag   string
}

// Derive computes the next record from the current one.
func Derive(current Record, policy MarketingPolicy, sig Signals) (Record, error) {
	marketing, err := NextMarketing(policy, current.Marketing, sig.LatestTag)
	if err != nil {
		return Record{}, err
	}
	project, err := NextProject(current.Project, sig)
	if err != nil {
		return Record{}, err
	}
	next := Record{Marketing: marketing, Project: project}
	if err := next.Validate(); err != nil {
		return Record{}, err
	}
	return next, nil
}

// NextMarketing applies policy to the current marketing version.
func NextMarketing(policy MarketingPolicy, current, tag string) (string, error) {
	switch policy {
	case FromTag:
		return marketingFromTag(tag)
	case BumpMinor:
		v, err := semver.NewVersion(current)
		if err != nil {
			return "", fmt.Errorf("%w: %s %q: %v", ErrInvalidVersion, marketingKey, current, err)
		}
		next := v.IncMinor()
		return fmt.Sprintf("%d.%d", next.Major(), next.Minor()), nil
	default:
		return "", fmt.Errorf("unknown marketing policy %q", policy)
	}
}

func marketingFromTag(tag string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if name == "" {
		return "", fmt.Errorf("%w: no tag found", ErrInvalidTag)
	}
	if _, err := semver.NewVersion(name); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidTag, tag, err)
	}
	if !marketingValueRegex.MatchString(name) {
		return "", fmt.Errorf("%w: %q is not MAJOR.MINOR", ErrInvalidTag, tag)
	}
	return name, nil
}

// BuildNumber is the commit count followed by the decimal value of the short
// hash, e.g. 512 and "a1b2c3d" give "512169552957".
func BuildNumber(count int, hash string) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("invalid commit count %d", count)
	}
	hash = strings.TrimSpace(hash)
	if !commitHashRegex.MatchString(hash) {
		return "", fmt.Errorf("invalid commit hash %q", hash)
	}
	dec, _ := new(big.Int).SetString(hash, 16)
	return fmt.Sprintf("%d%s", count, dec.String()), nil
}

// NextProject returns YYYYMMDD.<build>.<patch>. The patch restarts at 0 unless
// current was already derived from the same day and commit, in which case it
// is incremented.
func NextProject(current string, sig Signals) (string, error) {
	build, err := BuildNumber(sig.CommitCount, sig.CommitHash)
	if err != nil {
		return "", err
	}
	prefix := sig.Now.Format("20060102") + "." + build + "."

	patch := 0
	if rest, ok := strings.CutPrefix(current, prefix); ok {
		prev, err := strconv.Atoi(rest)
		if err != nil {
			return "", fmt.Errorf("%w: %s %q has a non-numeric patch", ErrInvalidVersion, projectKey, current)
		}
		patch = prev + 1
	}
	return prefix + strconv.Itoa(patch), nil
}
