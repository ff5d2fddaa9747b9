package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calebmls/attune/internal/library"
)

func insertTrack(tx *sql.Tx, t library.Track, state, batchID string) error {
	res, err := tx.Exec(`INSERT OR IGNORE INTO Track
		(id, state, title, artist, artist_id, album_artist, album, year, bpm, uri, artwork_url, batch_id, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, state, t.Title, t.Artist, t.ArtistID, t.AlbumArtist, t.Album,
		t.Year, t.BPM, t.URI, t.ArtworkURL, batchID, t.AddedAt)
	if err != nil {
		return fmt.Errorf("inserting track %q: %w", t.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insert of track %q: %w", t.ID, err)
	}
	if n == 0 {
		// Already present in this collection, nothing more to do.
		return nil
	}

	for _, g := range t.Genres {
		if _, err := tx.Exec("INSERT OR IGNORE INTO TrackGenre (track_id, state, genre) VALUES (?, ?, ?)",
			t.ID, state, g); err != nil {
			return fmt.Errorf("inserting genre for track %q: %w", t.ID, err)
		}
	}
	return nil
}

// RecordOwned merges tracks into the owned corpus. Existing records are
// left untouched, so re-running a sync is safe.
func (s *Store) RecordOwned(tracks []library.Track) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tracks {
		if err := insertTrack(tx, t, StateOwned, ""); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordPending replaces the pending collection with a new batch. Only
// one batch is ever in flight; a discovery run that is never approved
// is simply overwritten by the next one.
func (s *Store) RecordPending(batchID string, tracks []library.Track) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearPending(tx); err != nil {
		return err
	}
	for _, t := range tracks {
		if err := insertTrack(tx, t, StatePending, batchID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func clearPending(tx *sql.Tx) error {
	if _, err := tx.Exec("DELETE FROM TrackGenre WHERE state = ?", StatePending); err != nil {
		return fmt.Errorf("clearing pending genres: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM Track WHERE state = ?", StatePending); err != nil {
		return fmt.Errorf("clearing pending tracks: %w", err)
	}
	return nil
}

// Commit applies an approval verdict: approved and rejected tracks are
// appended to their history collections and the pending batch is
// cleared, all in one transaction. History inserts skip identifiers
// already present, so replaying the same verdict changes nothing.
func (s *Store) Commit(approved, rejected []library.Track) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range approved {
		if err := insertTrack(tx, t, StateApproved, ""); err != nil {
			return err
		}
	}
	for _, t := range rejected {
		if err := insertTrack(tx, t, StateRejected, ""); err != nil {
			return err
		}
	}
	if err := clearPending(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveArtistGenres records the fetched genre tags for an artist and
// stamps the fetch time, so enrichment can skip fresh artists.
func (s *Store) SaveArtistGenres(artist string, genres []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO Artist (name, genres_last_updated) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET genres_last_updated = excluded.genres_last_updated`,
		artist, time.Now()); err != nil {
		return fmt.Errorf("upserting artist %q: %w", artist, err)
	}
	if _, err := tx.Exec("DELETE FROM ArtistGenre WHERE artist = ?", artist); err != nil {
		return fmt.Errorf("clearing genres for artist %q: %w", artist, err)
	}
	for _, g := range genres {
		if _, err := tx.Exec("INSERT OR IGNORE INTO ArtistGenre (artist, genre) VALUES (?, ?)",
			artist, g); err != nil {
			return fmt.Errorf("inserting genre for artist %q: %w", artist, err)
		}
	}
	return tx.Commit()
}
