package localize

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultReferenceKey is the string whose localizations define a complete translation.
const DefaultReferenceKey = " "

// Incomplete returns every key with fewer localizations than referenceKey,
// mapped to its comment. ref is the reference localization count.
func (c *Catalog) Incomplete(referenceKey string) (missing map[string]string, ref int, err error) {
	entry, ok := c.Strings[referenceKey]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q is not in the catalog", ErrReferenceKeyMissing, referenceKey)
	}
	locs, _, err := entry.Localizations()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %q: %v", ErrReferenceKeyMissing, referenceKey, err)
	}
	if locs == nil {
		return nil, 0, fmt.Errorf("%w: %q has no localizations", ErrReferenceKeyMissing, referenceKey)
	}
	ref = len(locs)

	missing = make(map[string]string)
	for key, entry := range c.Strings {
		locs, _, err := entry.Localizations()
		if err != nil {
			return nil, 0, fmt.Errorf("%q: %w", key, err)
		}
		if len(locs) < ref {
			missing[key] = entry.Comment()
		}
	}
	return missing, ref, nil
}

// Reporter writes the incomplete-translation report of a seed catalog.
type Reporter struct {
	ReferenceKey string
	Logger       *zap.Logger
}

// Report reads the seed, and writes {key: comment} for every under-translated
// key to outputPath. Nothing is written when the seed is invalid.
func (r *Reporter) Report(seedPath, outputPath string) (map[string]string, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	key := r.ReferenceKey
	if key == "" {
		key = DefaultReferenceKey
	}

	catalog, err := LoadCatalog(seedPath)
	if err != nil {
		return nil, err
	}
	missing, ref, err := catalog.Incomplete(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", seedPath, err)
	}
	log.Info("found reference translations", zap.String("key", key), zap.Int("count", ref))

	if err := writeJSON(outputPath, missing); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	log.Info("wrote incomplete translations",
		zap.Int("strings", len(missing)),
		zap.String("output", outputPath))
	return missing, nil
}
