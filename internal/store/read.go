package store

import (
	"fmt"
	"time"

	"github.com/calebmls/attune/internal/library"
)

func (s *Store) readState(state string) ([]library.Track, error) {
	rows, err := s.db.Query(`SELECT id, title, artist, artist_id, album_artist, album,
		year, bpm, uri, artwork_url, added_at
		FROM Track WHERE state = ? ORDER BY rowid`, state)
	if err != nil {
		return nil, fmt.Errorf("querying %s tracks: %w", state, err)
	}
	defer rows.Close()

	var tracks []library.Track
	for rows.Next() {
		var t library.Track
		var addedAt *time.Time
		if err := rows.Scan(&t.ID, &t.Title, &t.Artist, &t.ArtistID, &t.AlbumArtist,
			&t.Album, &t.Year, &t.BPM, &t.URI, &t.ArtworkURL, &addedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning %s track: %v", ErrCorrupt, state, err)
		}
		if addedAt != nil {
			t.AddedAt = *addedAt
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s tracks: %w", state, err)
	}

	if err := s.attachGenres(state, tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (s *Store) attachGenres(state string, tracks []library.Track) error {
	rows, err := s.db.Query("SELECT track_id, genre FROM TrackGenre WHERE state = ? ORDER BY rowid", state)
	if err != nil {
		return fmt.Errorf("querying %s genres: %w", state, err)
	}
	defer rows.Close()

	genres := make(map[string][]string)
	for rows.Next() {
		var id, genre string
		if err := rows.Scan(&id, &genre); err != nil {
			return fmt.Errorf("%w: scanning %s genre: %v", ErrCorrupt, state, err)
		}
		genres[id] = append(genres[id], genre)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading %s genres: %w", state, err)
	}

	for i := range tracks {
		tracks[i].Genres = genres[tracks[i].ID]
	}
	return nil
}

func (s *Store) Owned() ([]library.Track, error) {
	return s.readState(StateOwned)
}

func (s *Store) Pending() ([]library.Track, error) {
	return s.readState(StatePending)
}

func (s *Store) Approved() ([]library.Track, error) {
	return s.readState(StateApproved)
}

func (s *Store) Rejected() ([]library.Track, error) {
	return s.readState(StateRejected)
}

// Corpus returns the tracks the taste model is built from: the owned
// library plus every approved discovery.
func (s *Store) Corpus() ([]library.Track, error) {
	owned, err := s.Owned()
	if err != nil {
		return nil, err
	}
	approved, err := s.Approved()
	if err != nil {
		return nil, err
	}
	return append(owned, approved...), nil
}

// ArtistGenres returns the saved genre tags for an artist, nil if the
// artist has never been enriched.
func (s *Store) ArtistGenres(artist string) ([]string, error) {
	rows, err := s.db.Query("SELECT genre FROM ArtistGenre WHERE artist = ? ORDER BY rowid", artist)
	if err != nil {
		return nil, fmt.Errorf("querying genres for artist %q: %w", artist, err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("%w: scanning artist genre: %v", ErrCorrupt, err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// ArtistsMissingGenres lists corpus artists whose genres were fetched
// before the cutoff, or never.
func (s *Store) ArtistsMissingGenres(cutoff time.Time) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT t.artist FROM Track t
		LEFT JOIN Artist a ON a.name = t.artist
		WHERE t.state IN (?, ?) AND (a.genres_last_updated IS NULL OR a.genres_last_updated < ?)
		ORDER BY t.artist`, StateOwned, StateApproved, cutoff)
	if err != nil {
		return nil, fmt.Errorf("querying artists missing genres: %w", err)
	}
	defer rows.Close()

	var artists []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning artist name: %w", err)
		}
		artists = append(artists, name)
	}
	return artists, rows.Err()
}
