package analysis

// GenreCount is one entry in the ranked genre list.
type GenreCount struct {
	Genre string
	Count int
}

// ArtistCount is one entry in the ranked artist list. ID is the stable
// artist identifier; Name is the display name.
type ArtistCount struct {
	ID    string
	Name  string
	Count int
}

// Profile is the taste model derived from the known-liked corpus plus
// approved discoveries. It is rebuilt from scratch each run and never
// persisted.
type Profile struct {
	// Genres ranked by occurrence count, descending; ties keep
	// first-seen order.
	Genres []GenreCount

	// Artists ranked the same way, keyed by stable artist identifier.
	Artists []ArtistCount

	// TrackIDs is the identifier set of the whole corpus.
	TrackIDs map[string]bool

	// AvgBPM is the arithmetic mean over tracks that expose a tempo;
	// zero when no track does.
	AvgBPM float64

	// Eras maps decade (e.g. 1990) to track count. Tracks with no
	// parseable year are absent.
	Eras map[int]int

	TotalTracks int
}
