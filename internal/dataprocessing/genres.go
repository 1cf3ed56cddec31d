package dataprocessing

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"chartpulse/pkg/contracts/domain"
)

// MappingEntry is one raw-label-to-category pair. The mapping keeps file
// order because substring matching is first-match-wins: when several keys
// match a label, the earliest entry decides. That tie-break is a documented
// policy of the harmonization, so the order must survive loading.
type MappingEntry struct {
	Key      string
	Category string
}

// Harmonizer maps free-text genre labels onto a fixed category set.
type Harmonizer struct {
	entries []MappingEntry
	exact   map[string]string
}

// NewHarmonizer builds a harmonizer from an ordered mapping.
func NewHarmonizer(entries []MappingEntry) *Harmonizer {
	exact := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := exact[e.Key]; !ok {
			exact[e.Key] = e.Category
		}
	}
	return &Harmonizer{entries: entries, exact: exact}
}

// Harmonize maps one raw genre label to its category: exact match first,
// then the category of the first mapping key appearing as a substring of
// the label, else "Other". Missing labels are "Other".
func (h *Harmonizer) Harmonize(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return domain.GenreOther
	}

	if category, ok := h.exact[label]; ok {
		return category
	}

	for _, e := range h.entries {
		if strings.Contains(label, e.Key) {
			return e.Category
		}
	}

	return domain.GenreOther
}

// Len returns the number of mapping entries.
func (h *Harmonizer) Len() int {
	return len(h.entries)
}

// Categories returns the distinct target categories in mapping order.
func (h *Harmonizer) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range h.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// LoadMapping reads a genre mapping from a JSON object of
// {rawLabel: category} pairs, preserving the key order of the file. The
// object is decoded token by token because Go maps would lose the order
// the substring tie-break depends on.
func LoadMapping(path string) ([]MappingEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genre mapping: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read genre mapping: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("genre mapping must be a JSON object, got %v", tok)
	}

	var entries []MappingEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read genre mapping key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("genre mapping key is not a string: %v", keyTok)
		}

		var category string
		if err := dec.Decode(&category); err != nil {
			return nil, fmt.Errorf("read category for %q: %w", key, err)
		}

		entries = append(entries, MappingEntry{
			Key:      strings.ToLower(strings.TrimSpace(key)),
			Category: category,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("genre mapping is empty")
	}

	return entries, nil
}

// DefaultMapping returns the built-in mapping used when no mapping file is
// configured or present. Order matters; see MappingEntry.
func DefaultMapping() []MappingEntry {
	return []MappingEntry{
		{"pop", "Pop"}, {"dance pop", "Pop"}, {"electropop", "Pop"}, {"indie pop", "Pop"},
		{"synth-pop", "Pop"}, {"teen pop", "Pop"}, {"k-pop", "Pop"}, {"latin pop", "Pop"},
		{"hip hop", "Hip-Hop"}, {"rap", "Hip-Hop"}, {"trap", "Hip-Hop"}, {"cloud rap", "Hip-Hop"},
		{"emo rap", "Hip-Hop"}, {"gangster rap", "Hip-Hop"}, {"german hip hop", "Hip-Hop"},
		{"dfw rap", "Hip-Hop"}, {"deep german hip hop", "Hip-Hop"},
		{"edm", "Electronic"}, {"electronic", "Electronic"}, {"house", "Electronic"},
		{"techno", "Electronic"}, {"dubstep", "Electronic"}, {"trance", "Electronic"},
		{"deep house", "Electronic"}, {"progressive house", "Electronic"}, {"big room", "Electronic"},
		{"rock", "Rock"}, {"alternative rock", "Rock"}, {"indie rock", "Rock"},
		{"hard rock", "Rock"}, {"punk rock", "Rock"}, {"classic rock", "Rock"},
		{"r&b", "R&B"}, {"r & b", "R&B"}, {"soul", "R&B"}, {"neo soul", "R&B"},
		{"latin", "Latin"}, {"reggaeton", "Latin"}, {"bachata", "Latin"}, {"salsa", "Latin"},
		{"sertanejo", "Latin"}, {"funk carioca", "Latin"}, {"forro", "Latin"},
		{"country", "Country"}, {"country pop", "Country"}, {"bluegrass", "Country"},
		{"jazz", "Jazz"}, {"bebop", "Jazz"}, {"smooth jazz", "Jazz"},
	}
}
