package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTrackID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"full url", "https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp", "3n3Ppam7vgaVa1iaRUc9Lp"},
		{"url with query", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc", "4uLU6hMCjMI75M1A2tKUQC"},
		{"bare path", "track/AbC123", "AbC123"},
		{"no track segment", "https://open.spotify.com/album/xyz", ""},
		{"empty", "", ""},
		{"track segment without id", "https://open.spotify.com/track/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTrackID(tt.url))
		})
	}
}
