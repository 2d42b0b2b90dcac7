package version

import (
	"time"

	"go.uber.org/zap"
)

// Bumper reads a manifest, derives the next versions and rewrites it.
type Bumper struct {
	Git    Git
	Policy MarketingPolicy
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// DryRun derives and reports without writing.
	DryRun bool
}

// Result reports a bump.
type Result struct {
	Previous Record
	Next     Record
	Written  bool
}

// Bump derives the next record for the manifest at path and writes it. The
// manifest is parsed and every signal resolved before the single write.
func (b *Bumper) Bump(path string) (Result, error) {
	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m, err := ReadManifest(path)
	if err != nil {
		return Result{}, err
	}
	log.Debug("read manifest",
		zap.String("path", path),
		zap.String("marketing", m.Current.Marketing),
		zap.String("project", m.Current.Project))

	sig, err := b.Git.Signals(b.Policy.NeedsTag())
	if err != nil {
		return Result{}, err
	}
	sig.Now = time.Now()
	if b.Now != nil {
		sig.Now = b.Now()
	}

	next, err := Derive(m.Current, b.Policy, sig)
	if err != nil {
		return Result{}, err
	}
	res := Result{Previous: m.Current, Next: next}
	if b.DryRun {
		log.Info("dry run, manifest not written", zap.Stringer("next", next))
		return res, nil
	}

	if err := m.Write(next); err != nil {
		return Result{}, err
	}
	res.Written = true
	log.Info("bumped versions",
		zap.Stringer("previous", res.Previous),
		zap.Stringer("next", res.Next))
	return res, nil
}
