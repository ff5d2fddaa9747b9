package playlist

import (
	"strings"
	"testing"
)

func TestReadTabSeparated(t *testing.T) {
	input := "Song A\tArtist X\tAlbum One\nSong B\tArtist Y\n"

	entries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Song A" || entries[0].Artist != "Artist X" || entries[0].Album != "Album One" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Album != "" {
		t.Errorf("expected empty album on two-field line, got %q", entries[1].Album)
	}
}

func TestReadDashForm(t *testing.T) {
	entries, err := Read(strings.NewReader("Song A - Artist X\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Title != "Song A" || entries[0].Artist != "Artist X" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestReadSkipsCommentsAndBlanks(t *testing.T) {
	input := "#EXTM3U\n\nSong A\tArtist X\n  \n#EXTINF:123,whatever\nSong B - Artist Y\n"

	entries, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected directives and blanks skipped, got %+v", entries)
	}
}

func TestReadRejectsMalformedLine(t *testing.T) {
	tests := []string{
		"just a title with no artist\n",
		"\tArtist X\n",
	}
	for _, input := range tests {
		if _, err := Read(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
