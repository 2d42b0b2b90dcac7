package localize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// DefaultPattern selects per-language files by base name.
const DefaultPattern = "*.json"

// LanguageCode is the part of a file's base name before the first dot:
// "pt-BR.json" is "pt-BR".
func LanguageCode(filename string) string {
	code, _, _ := strings.Cut(filepath.Base(filename), ".")
	return code
}

// ParseLanguageFile decodes a flat {"key": "translation"} document.
func ParseLanguageFile(data []byte) (map[string]string, error) {
	var values map[string]string
	if err := json.Unmarshal(stripBOM(data), &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return values, nil
}

// LanguageFiles lists the regular files in dir whose base name matches
// pattern, skipping any whose base name is in exclude. The result is sorted.
func LanguageFiles(dir, pattern string, exclude ...string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid language file pattern %q", pattern)
	}
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[filepath.Base(name)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || skip[e.Name()] {
			continue
		}
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Merger folds per-language files into a seed catalog.
type Merger struct {
	Pattern string
	Logger  *zap.Logger
}

// MergeReport summarizes a merge.
type MergeReport struct {
	Files   []string
	Applied int // translations written into the catalog
	Dropped int // translations for keys the seed does not define
}

// Merge loads the seed at seedPath, applies every language file in dir and
// writes the result to outputPath. Files named like the seed are never
// language files; the output file is skipped when it lives in dir. Every input is parsed
// before the output is written; any failure leaves no output behind.
func (m *Merger) Merge(dir, seedPath, outputPath string) (MergeReport, error) {
	log := m.Logger
	if log == nil {
		log = zap.NewNop()
	}

	catalog, err := LoadCatalog(seedPath)
	if err != nil {
		return MergeReport{}, err
	}

	exclude := []string{seedPath}
	if sameDir(dir, filepath.Dir(outputPath)) {
		exclude = append(exclude, outputPath)
	}
	files, err := LanguageFiles(dir, m.Pattern, exclude...)
	if err != nil {
		return MergeReport{}, err
	}

	report := MergeReport{Files: files}
	for _, path := range files {
		lang := LanguageCode(path)
		if _, err := language.Parse(lang); err != nil {
			log.Warn("file name is not a language tag", zap.String("file", path), zap.String("lang", lang))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return MergeReport{}, err
		}
		values, err := ParseLanguageFile(data)
		if err != nil {
			return MergeReport{}, fmt.Errorf("%s: %w", path, err)
		}

		applied, dropped, err := catalog.apply(lang, values)
		if err != nil {
			return MergeReport{}, fmt.Errorf("%s: %w", path, err)
		}
		report.Applied += applied
		report.Dropped += dropped
		log.Debug("merged language file",
			zap.String("lang", lang),
			zap.Int("applied", applied),
			zap.Int("dropped", dropped))
	}

	if err := writeJSON(outputPath, catalog); err != nil {
		return MergeReport{}, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	log.Info("merged localizations",
		zap.Int("files", len(files)),
		zap.Int("applied", report.Applied),
		zap.Int("dropped", report.Dropped),
		zap.String("output", outputPath))
	return report, nil
}

func (c *Catalog) apply(lang string, values map[string]string) (applied, dropped int, err error) {
	for key, value := range values {
		ok, err := c.SetTranslation(key, lang, value)
		if err != nil {
			return applied, dropped, err
		}
		if ok {
			applied++
		} else {
			dropped++
		}
	}
	return applied, dropped, nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
