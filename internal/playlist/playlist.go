// Package playlist reads exported device playlists into approval
// entries.
package playlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calebmls/attune/internal/classifier"
)

// Read parses a playlist export. Two line shapes are accepted: the
// tab-separated export (Title, Artist, optional Album) and the plain
// "Title - Artist" form some players produce. Blank lines and lines
// starting with '#' (M3U directives) are skipped.
func Read(r io.Reader) ([]classifier.PlaylistEntry, error) {
	var entries []classifier.PlaylistEntry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		entry, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	return entries, nil
}

func parseLine(text string) (classifier.PlaylistEntry, error) {
	if strings.Contains(text, "\t") {
		fields := strings.Split(text, "\t")
		entry := classifier.PlaylistEntry{
			Title:  strings.TrimSpace(fields[0]),
			Artist: strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 {
			entry.Album = strings.TrimSpace(fields[2])
		}
		if entry.Title == "" || entry.Artist == "" {
			return classifier.PlaylistEntry{}, fmt.Errorf("missing title or artist in %q", text)
		}
		return entry, nil
	}

	title, artist, found := strings.Cut(text, " - ")
	if !found {
		return classifier.PlaylistEntry{}, fmt.Errorf("unrecognized playlist line %q", text)
	}
	return classifier.PlaylistEntry{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}, nil
}

// ReadFile opens and parses a playlist export from disk.
func ReadFile(path string) ([]classifier.PlaylistEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening playlist: %w", err)
	}
	defer f.Close()
	return Read(f)
}
