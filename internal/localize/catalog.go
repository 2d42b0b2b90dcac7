// Package localize reconciles String Catalog (.xcstrings) files: it merges
// per-language translation files into a seed catalog and reports strings that
// are missing translations.
package localize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSeedSchemaInvalid means the seed has no usable top-level "strings" object.
	ErrSeedSchemaInvalid = errors.New("seed schema invalid")
	// ErrReferenceKeyMissing means the seed is valid but the reference string or its localizations are absent.
	ErrReferenceKeyMissing = errors.New("reference key missing")
	// ErrMalformedInput means a file is not the JSON it should be.
	ErrMalformedInput = errors.New("malformed input")
)

// StateTranslated is the stringUnit state written for merged translations.
const StateTranslated = "translated"

// StringUnit is the translated value of a string in one language.
type StringUnit struct {
	State string `json:"state"`
	Value string `json:"value"`
}

// Localization is the per-language record under an entry's "localizations".
type Localization struct {
	StringUnit StringUnit `json:"stringUnit"`
}

// Entry is a single string's object. Keys other than "comment" and
// "localizations" (extractionState, variations, ...) are carried through untouched.
type Entry map[string]json.RawMessage

// Comment returns the developer comment, or "" when absent.
func (e Entry) Comment() string {
	raw, ok := e["comment"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Localizations decodes the entry's localizations. ok is false when the key is absent.
func (e Entry) Localizations() (locs map[string]json.RawMessage, ok bool, err error) {
	raw, ok := e["localizations"]
	if !ok {
		return nil, false, nil
	}
	if err := json.Unmarshal(raw, &locs); err != nil {
		return nil, true, fmt.Errorf("%w: localizations: %v", ErrMalformedInput, err)
	}
	return locs, true, nil
}

// Catalog is a String Catalog document. Top-level keys other than "strings"
// (sourceLanguage, version, ...) are carried through untouched.
type Catalog struct {
	Strings map[string]Entry
	fields  map[string]json.RawMessage
}

// ParseCatalog decodes a catalog. A document without a "strings" object fails
// with ErrSeedSchemaInvalid; invalid JSON fails with ErrMalformedInput.
func ParseCatalog(data []byte) (*Catalog, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(stripBOM(data), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	raw, ok := top["strings"]
	if !ok {
		return nil, fmt.Errorf("%w: missing the 'strings' key", ErrSeedSchemaInvalid)
	}
	var strs map[string]Entry
	if err := json.Unmarshal(raw, &strs); err != nil || strs == nil {
		return nil, fmt.Errorf("%w: 'strings' is not an object of entries", ErrSeedSchemaInvalid)
	}
	delete(top, "strings")
	return &Catalog{Strings: strs, fields: top}, nil
}

// LoadCatalog reads and parses the catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SetTranslation stores value as the translated localization of key in lang,
// replacing any previous one. It reports false, and changes nothing, when key
// is not in the catalog.
func (c *Catalog) SetTranslation(key, lang, value string) (bool, error) {
	entry, ok := c.Strings[key]
	if !ok {
		return false, nil
	}
	if entry == nil {
		entry = Entry{}
		c.Strings[key] = entry
	}
	locs, _, err := entry.Localizations()
	if err != nil {
		return false, fmt.Errorf("%q: %w", key, err)
	}
	if locs == nil {
		locs = make(map[string]json.RawMessage)
	}
	unit, err := marshal(Localization{StringUnit: StringUnit{State: StateTranslated, Value: value}})
	if err != nil {
		return false, err
	}
	locs[lang] = unit
	raw, err := marshal(locs)
	if err != nil {
		return false, err
	}
	entry["localizations"] = raw
	return true, nil
}

// MarshalJSON encodes the catalog with the preserved top-level keys.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	top := make(map[string]any, len(c.fields)+1)
	for k, v := range c.fields {
		top[k] = v
	}
	top["strings"] = c.Strings
	return marshal(top)
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeJSON writes v with four-space indentation and without HTML escaping,
// so translated text stays readable.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
