// Package migration holds the schema for the tracking database.
package migration

// Create builds the tracking schema. A track identifier may appear in
// more than one state (an approved discovery is also part of the taste
// corpus), so identity is (id, state).
const Create = `
CREATE TABLE IF NOT EXISTS Track (
  id TEXT NOT NULL,
  state TEXT NOT NULL CHECK (state IN ('owned', 'pending', 'approved', 'rejected')),
  title TEXT NOT NULL,
  artist TEXT NOT NULL,
  artist_id TEXT NOT NULL DEFAULT '',
  album_artist TEXT NOT NULL DEFAULT '',
  album TEXT NOT NULL DEFAULT '',
  year INTEGER NOT NULL DEFAULT 0,
  bpm REAL NOT NULL DEFAULT 0,
  uri TEXT NOT NULL DEFAULT '',
  artwork_url TEXT NOT NULL DEFAULT '',
  batch_id TEXT NOT NULL DEFAULT '',
  added_at DATETIME,
  PRIMARY KEY (id, state)
);

CREATE TABLE IF NOT EXISTS TrackGenre (
  track_id TEXT NOT NULL,
  state TEXT NOT NULL,
  genre TEXT NOT NULL,
  PRIMARY KEY (track_id, state, genre),
  FOREIGN KEY (track_id, state) REFERENCES Track(id, state)
);

CREATE TABLE IF NOT EXISTS Artist (
  name TEXT PRIMARY KEY,
  genres_last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS ArtistGenre (
  artist TEXT NOT NULL,
  genre TEXT NOT NULL,
  PRIMARY KEY (artist, genre),
  FOREIGN KEY (artist) REFERENCES Artist(name)
);

CREATE INDEX IF NOT EXISTS idx_track_state ON Track(state);
`
