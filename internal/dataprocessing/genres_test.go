package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarmonize(t *testing.T) {
	h := NewHarmonizer(DefaultMapping())

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"exact match", "pop", "Pop"},
		{"exact multi-word", "dance pop", "Pop"},
		{"case and whitespace normalized", "  Reggaeton ", "Latin"},
		{"substring match", "melodic german hip hop wave", "Hip-Hop"},
		{"first substring wins", "pop rock", "Pop"},
		{"missing label", "", "Other"},
		{"unknown label", "gregorian chant", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Harmonize(tt.raw))
		})
	}
}

// Harmonizing an already-harmonized label returns it unchanged for the
// categories whose lower-cased form is itself a mapping key. "R&B" and
// categories like "Latin" map onto themselves; "Hip-Hop" is the documented
// exception: its hyphenated form is not a mapping key and no key is a
// substring of it, so it falls to Other.
func TestHarmonize_Idempotence(t *testing.T) {
	h := NewHarmonizer(DefaultMapping())

	for _, category := range []string{"Pop", "Rock", "R&B", "Latin", "Country", "Jazz", "Electronic", "Other"} {
		t.Run(category, func(t *testing.T) {
			if category == "Other" {
				assert.Equal(t, "Other", h.Harmonize(category))
				return
			}
			assert.Equal(t, category, h.Harmonize(category))
		})
	}

	assert.Equal(t, "Other", h.Harmonize("Hip-Hop"))
}

func TestHarmonizer_Categories(t *testing.T) {
	h := NewHarmonizer(DefaultMapping())

	assert.Equal(t,
		[]string{"Pop", "Hip-Hop", "Electronic", "Rock", "R&B", "Latin", "Country", "Jazz"},
		h.Categories())
}

func TestLoadMapping_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genre_mapping.json")

	// "indie" precedes "rock"; a label matching both must resolve to the
	// earlier entry.
	content := `{"indie": "Indie", "rock": "Rock", "Jazz Fusion": "Jazz"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := LoadMapping(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, MappingEntry{Key: "indie", Category: "Indie"}, entries[0])
	assert.Equal(t, MappingEntry{Key: "rock", Category: "Rock"}, entries[1])
	// Keys are normalized on load
	assert.Equal(t, MappingEntry{Key: "jazz fusion", Category: "Jazz"}, entries[2])

	h := NewHarmonizer(entries)
	assert.Equal(t, "Indie", h.Harmonize("indie rock"))
}

func TestLoadMapping_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMapping(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("not an object", func(t *testing.T) {
		path := filepath.Join(dir, "array.json")
		require.NoError(t, os.WriteFile(path, []byte(`["pop"]`), 0644))
		_, err := LoadMapping(path)
		assert.ErrorContains(t, err, "JSON object")
	})

	t.Run("empty object", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))
		_, err := LoadMapping(path)
		assert.ErrorContains(t, err, "empty")
	})
}
