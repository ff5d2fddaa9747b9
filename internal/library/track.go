// Package library defines the track model shared by every stage of the
// discovery pipeline.
package library

import (
	"strings"
	"time"
	"unicode"
)

// Track is one song known to the system. ID is the stable source
// identifier (Spotify track ID for anything that came from Spotify);
// when no identifier is available the normalized (title, artist) pair
// stands in for identity.
type Track struct {
	ID          string
	Title       string
	Artist      string
	ArtistID    string
	AlbumArtist string
	Album       string
	Genres      []string
	Year        int     // 0 = unknown
	BPM         float64 // 0 = unknown
	URI         string
	ArtworkURL  string
	AddedAt     time.Time
}

// Key returns the normalized title|artist pair used for duplicate
// suppression within a batch.
func (t Track) Key() string {
	return Normalize(t.Title) + "|" + Normalize(t.Artist)
}

// ArtistKey returns the stable artist identifier, falling back to the
// normalized display name when the source didn't provide one.
func (t Track) ArtistKey() string {
	if t.ArtistID != "" {
		return t.ArtistID
	}
	return Normalize(t.Artist)
}

// Decade returns the release decade (e.g. 1990), or 0 when the year is
// unknown.
func (t Track) Decade() int {
	if t.Year <= 0 {
		return 0
	}
	return t.Year / 10 * 10
}

func (t Track) Display() string {
	return t.Title + " - " + t.Artist
}

// Normalize lowercases, strips punctuation and collapses whitespace.
// Both the generator's dedup key and the classifier's fuzzy matching go
// through here so the two sides always compare the same shape of string.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
