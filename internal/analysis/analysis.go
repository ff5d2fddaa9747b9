// Package analysis builds the taste profile that drives candidate
// generation.
package analysis

import (
	"errors"
	"sort"

	"github.com/calebmls/attune/internal/library"
)

// ErrNoSignal is returned by Build for an empty corpus. Callers must
// treat it as "no taste signal" and fall back to unweighted random
// generation, not as a failure.
var ErrNoSignal = errors.New("corpus is empty, no taste signal")

// Build derives a Profile from the corpus (owned tracks plus approved
// discoveries). Pure function of its input.
func Build(corpus []library.Track) (*Profile, error) {
	if len(corpus) == 0 {
		return nil, ErrNoSignal
	}

	p := &Profile{
		TrackIDs:    make(map[string]bool, len(corpus)),
		Eras:        make(map[int]int),
		TotalTracks: len(corpus),
	}

	genreCounts := make(map[string]int)
	var genreOrder []string

	type artistEntry struct {
		name  string
		count int
	}
	artistCounts := make(map[string]*artistEntry)
	var artistOrder []string

	var bpmSum float64
	var bpmN int

	for _, t := range corpus {
		if t.ID != "" {
			p.TrackIDs[t.ID] = true
		}

		// A track contributes once per genre tag it carries.
		for _, g := range t.Genres {
			if g == "" {
				continue
			}
			if _, ok := genreCounts[g]; !ok {
				genreOrder = append(genreOrder, g)
			}
			genreCounts[g]++
		}

		if t.Artist != "" {
			key := t.ArtistKey()
			e, ok := artistCounts[key]
			if !ok {
				e = &artistEntry{name: t.Artist}
				artistCounts[key] = e
				artistOrder = append(artistOrder, key)
			}
			e.count++
		}

		if t.BPM > 0 {
			bpmSum += t.BPM
			bpmN++
		}

		if d := t.Decade(); d > 0 {
			p.Eras[d]++
		}
	}

	// Build ranked lists in first-seen order, then a stable sort by
	// count keeps ties deterministic.
	for _, g := range genreOrder {
		p.Genres = append(p.Genres, GenreCount{Genre: g, Count: genreCounts[g]})
	}
	sort.SliceStable(p.Genres, func(i, j int) bool {
		return p.Genres[i].Count > p.Genres[j].Count
	})

	for _, key := range artistOrder {
		e := artistCounts[key]
		p.Artists = append(p.Artists, ArtistCount{ID: key, Name: e.name, Count: e.count})
	}
	sort.SliceStable(p.Artists, func(i, j int) bool {
		return p.Artists[i].Count > p.Artists[j].Count
	})

	if bpmN > 0 {
		p.AvgBPM = bpmSum / float64(bpmN)
	}

	return p, nil
}

// MidTierArtists returns the artists ranked strictly between the top
// decile and the bottom half of the distinct-artist count. These are
// close enough to established taste to be plausible picks without
// re-sampling the artists the listener already knows best.
func (p *Profile) MidTierArtists() []ArtistCount {
	n := len(p.Artists)
	lo := n / 10
	hi := n / 2
	if lo >= hi {
		return nil
	}
	return p.Artists[lo:hi]
}

// UnderRepresentedDecades returns the decades whose count falls below
// the histogram mean, sorted ascending. Empty histogram yields nil.
func (p *Profile) UnderRepresentedDecades() []int {
	if len(p.Eras) == 0 {
		return nil
	}

	total := 0
	for _, c := range p.Eras {
		total += c
	}
	mean := float64(total) / float64(len(p.Eras))

	var out []int
	for d, c := range p.Eras {
		if float64(c) < mean {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
