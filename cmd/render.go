package cmd

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/calebmls/attune/internal/library"
	"github.com/calebmls/attune/internal/store"
)

func renderTracks(tracks []library.Track) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Title", "Artist", "Album", "Year"})
	for _, t := range tracks {
		year := ""
		if t.Year > 0 {
			year = strconv.Itoa(t.Year)
		}
		if err := table.Append([]string{t.Title, t.Artist, t.Album, year}); err != nil {
			return err
		}
	}
	return table.Render()
}

// fillGenres backfills track genres from the per-artist tags saved by
// enrichment. Tracks that already carry genres are left alone.
func fillGenres(s *store.Store, tracks []library.Track) error {
	cache := make(map[string][]string)
	for i, t := range tracks {
		if len(t.Genres) > 0 {
			continue
		}

		genres, ok := cache[t.Artist]
		if !ok {
			var err error
			genres, err = s.ArtistGenres(t.Artist)
			if err != nil {
				return err
			}
			cache[t.Artist] = genres
		}
		tracks[i].Genres = genres
	}
	return nil
}
