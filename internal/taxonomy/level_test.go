package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLevel_RoundTripsCanonicalLabels(t *testing.T) {
	t.Parallel()

	for _, l := range Default.Levels() {
		code, ok := NormalizeLevel(Label(l.Code))
		require.True(t, ok, "label %q did not resolve", Label(l.Code))
		assert.Equal(t, l.Code, code)
	}
}

func TestNormalizeLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		want   LevelCode
		wantOK bool
	}{
		{"lowercase code", "l3", "L3", true},
		{"padded code", "  L7 ", "L7", true},
		{"short name", "Starting", "L1", true},
		{"prefix stripped label", "Follow (Self Aware)", "L2", true},
		{"full label with en dash", "L4 – Apply (Drive Squad)", "L4", true},
		{"full label with em dash", "L6 — Ensure (Steer Org)", "L6", true},
		{"dash collapsed", "L5-Enable (Drive Team)", "L5", true},
		{"extra whitespace", "Inspire   (Inspire  Market)", "L8", true},
		{"unknown code", "L9", "", false},
		{"unknown label", "Grandmaster", "", false},
		{"empty", "", "", false},
		{"legacy band is not a level", "foundation", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NormalizeLevel(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandLegacyLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []LevelCode
	}{
		{"foundation", []LevelCode{"L1", "L2"}},
		{"  FOUNDATION ", []LevelCode{"L1", "L2"}},
		{"Practitioner", []LevelCode{"L3", "L4"}},
		{"professional", []LevelCode{"L5", "L6"}},
		{"specialist", []LevelCode{"L7", "L8"}},
		{"expert", []LevelCode{}},
		{"", []LevelCode{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExpandLegacyLevel(tt.raw))
		})
	}
}

func TestExpandLegacyLevel_ReturnsCopy(t *testing.T) {
	t.Parallel()

	first := ExpandLegacyLevel("foundation")
	first[0] = "L8"

	assert.Equal(t, []LevelCode{"L1", "L2"}, ExpandLegacyLevel("foundation"))
}

func TestNormalizeLevels(t *testing.T) {
	t.Parallel()

	got := NormalizeLevels([]string{"foundation", "L2", "Starting", "bogus", "l3", "Assist (Self Lead)"})

	assert.Equal(t, []LevelCode{"L1", "L2", "L3"}, got)
}

func TestNormalizeLevels_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NormalizeLevels(nil))
	assert.Empty(t, NormalizeLevels([]string{"", "  "}))
}

func TestNewScheme_ZeroBasedScheme(t *testing.T) {
	t.Parallel()

	s := NewScheme([]Level{
		{Code: "L0", Name: "Aware"},
		{Code: "L1", Name: "Basic"},
		{Code: "L2", Name: "Working"},
	}, DefaultBands)

	assert.Equal(t, []LevelCode{"L0", "L1"}, s.ExpandLegacy("foundation"))
	assert.Empty(t, s.ExpandLegacy("practitioner"))

	code, ok := s.Normalize("L0 - Aware")
	require.True(t, ok)
	assert.Equal(t, LevelCode("L0"), code)
}
