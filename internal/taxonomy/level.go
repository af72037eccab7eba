// Package taxonomy maps free-text and legacy level labels onto the
// canonical LMS level codes.
package taxonomy

import (
	"regexp"
	"strings"
)

// LevelCode is a canonical level identifier such as "L3".
type LevelCode string

// Level is one rung of a level scheme.
type Level struct {
	Code      LevelCode
	Name      string
	Qualifier string
}

// Label is the canonical display label, e.g. "L2 - Follow (Self Aware)".
func (l Level) Label() string {
	label := string(l.Code) + " - " + l.Name
	if l.Qualifier != "" {
		label += " (" + l.Qualifier + ")"
	}
	return label
}

// DefaultLevels is the L1..L8 scheme used by the LMS catalog.
var DefaultLevels = []Level{
	{Code: "L1", Name: "Starting", Qualifier: "Learning"},
	{Code: "L2", Name: "Follow", Qualifier: "Self Aware"},
	{Code: "L3", Name: "Assist", Qualifier: "Self Lead"},
	{Code: "L4", Name: "Apply", Qualifier: "Drive Squad"},
	{Code: "L5", Name: "Enable", Qualifier: "Drive Team"},
	{Code: "L6", Name: "Ensure", Qualifier: "Steer Org"},
	{Code: "L7", Name: "Influence", Qualifier: "Steer Cross"},
	{Code: "L8", Name: "Inspire", Qualifier: "Inspire Market"},
}

// DefaultBands are the legacy band names, lowest first. Band i covers the
// levels at positions 2i and 2i+1 of the scheme.
var DefaultBands = []string{"foundation", "practitioner", "professional", "specialist"}

var (
	codePattern   = regexp.MustCompile(`^l\d+$`)
	prefixPattern = regexp.MustCompile(`^l\d+\s*-\s*`)
	dashPattern   = regexp.MustCompile(`\s*-\s*`)
)

// Scheme resolves raw labels against one set of levels. The lookup tables
// are built once in NewScheme and never mutated, so a Scheme is safe for
// concurrent use.
type Scheme struct {
	levels    []Level
	byCode    map[string]Level
	aliases   map[string]LevelCode
	collapsed map[string]LevelCode
	bands     map[string][]LevelCode
}

// NewScheme builds the alias tables for levels and maps each band name to
// the pair of levels it covers. Bands beyond the end of the scheme are
// ignored.
func NewScheme(levels []Level, bands []string) *Scheme {
	s := &Scheme{
		levels:    levels,
		byCode:    make(map[string]Level, len(levels)),
		aliases:   make(map[string]LevelCode),
		collapsed: make(map[string]LevelCode),
		bands:     make(map[string][]LevelCode, len(bands)),
	}

	for _, l := range levels {
		s.byCode[strings.ToLower(string(l.Code))] = l

		label := clean(l.Label())
		stripped := prefixPattern.ReplaceAllString(label, "")
		for _, alias := range []string{label, stripped, clean(l.Name)} {
			if alias == "" {
				continue
			}
			// First writer wins so a short name can never steal a full label.
			if _, ok := s.aliases[alias]; !ok {
				s.aliases[alias] = l.Code
			}
			key := collapseDashes(alias)
			if _, ok := s.collapsed[key]; !ok {
				s.collapsed[key] = l.Code
			}
		}
	}

	for i, band := range bands {
		lo, hi := 2*i, 2*i+1
		if hi >= len(levels) {
			break
		}
		s.bands[clean(band)] = []LevelCode{levels[lo].Code, levels[hi].Code}
	}

	return s
}

// Default is the scheme used by the package-level helpers.
var Default = NewScheme(DefaultLevels, DefaultBands)

// Levels returns the scheme's levels in order.
func (s *Scheme) Levels() []Level {
	out := make([]Level, len(s.levels))
	copy(out, s.levels)
	return out
}

// Label returns the canonical label for code, or code itself when unknown.
func (s *Scheme) Label(code LevelCode) string {
	if l, ok := s.byCode[strings.ToLower(string(code))]; ok {
		return l.Label()
	}
	return string(code)
}

// Normalize resolves raw to a canonical code. Matching order: exact code,
// alias table, dash-collapsed alias. ok is false when nothing matches.
func (s *Scheme) Normalize(raw string) (LevelCode, bool) {
	value := clean(raw)
	if value == "" {
		return "", false
	}

	if codePattern.MatchString(value) {
		if l, ok := s.byCode[value]; ok {
			return l.Code, true
		}
	}

	if code, ok := s.aliases[value]; ok {
		return code, true
	}

	if code, ok := s.collapsed[collapseDashes(value)]; ok {
		return code, true
	}

	return "", false
}

// ExpandLegacy maps a legacy band name to the two codes it covers. Unknown
// bands yield an empty slice.
func (s *Scheme) ExpandLegacy(raw string) []LevelCode {
	codes, ok := s.bands[clean(raw)]
	if !ok {
		return []LevelCode{}
	}
	out := make([]LevelCode, len(codes))
	copy(out, codes)
	return out
}

// NormalizeAll resolves every value, trying a direct match before legacy
// expansion. Results are deduplicated in first-seen order; values that
// resolve to nothing are dropped.
func (s *Scheme) NormalizeAll(values []string) []LevelCode {
	out := make([]LevelCode, 0, len(values))
	seen := make(map[LevelCode]struct{}, len(values))

	add := func(code LevelCode) {
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	for _, v := range values {
		if code, ok := s.Normalize(v); ok {
			add(code)
			continue
		}
		for _, code := range s.ExpandLegacy(v) {
			add(code)
		}
	}

	return out
}

// NormalizeLevel resolves raw against the default scheme.
func NormalizeLevel(raw string) (LevelCode, bool) { return Default.Normalize(raw) }

// ExpandLegacyLevel expands a legacy band against the default scheme.
func ExpandLegacyLevel(raw string) []LevelCode { return Default.ExpandLegacy(raw) }

// NormalizeLevels batch-normalizes against the default scheme.
func NormalizeLevels(values []string) []LevelCode { return Default.NormalizeAll(values) }

// Levels returns the default scheme's levels in order.
func Levels() []Level { return Default.Levels() }

// Label returns the default scheme's canonical label for code.
func Label(code LevelCode) string { return Default.Label(code) }

// clean lowercases, folds unicode dash variants to '-', and collapses runs
// of whitespace.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '‐', '‑', '‒', '–', '—', '―', '−', '﹘', '﹣', '－':
			return '-'
		}
		return r
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func collapseDashes(s string) string {
	return dashPattern.ReplaceAllString(s, "-")
}
