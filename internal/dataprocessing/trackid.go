package dataprocessing

import (
	"regexp"
)

// trackIDPattern matches the track path segment of a platform URL, e.g.
// https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp.
var trackIDPattern = regexp.MustCompile(`track/([A-Za-z0-9]+)`)

// ExtractTrackID derives the stable track identifier from a source URL.
// Returns an empty string when the URL carries no track path segment; rows
// without an ID are unusable for joins and are dropped later with a logged
// count.
func ExtractTrackID(url string) string {
	match := trackIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}
