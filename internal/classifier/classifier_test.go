package classifier

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/calebmls/attune/internal/library"
)

func newTestClassifier(sim Similarity, threshold float64) *Classifier {
	c := New(sim, threshold)
	c.SetLogger(log.New(io.Discard))
	return c
}

func TestClassifyBasic(t *testing.T) {
	pending := []library.Track{
		{ID: "a", Title: "Song A", Artist: "X"},
		{ID: "b", Title: "Song B", Artist: "Y"},
	}
	entries := []PlaylistEntry{{Title: "song a", Artist: "x"}}

	res := newTestClassifier(nil, 0.75).Classify(pending, entries)

	if len(res.Approved) != 1 || res.Approved[0].ID != "a" {
		t.Fatalf("expected [a] approved, got %+v", res.Approved)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].ID != "b" {
		t.Fatalf("expected [b] rejected, got %+v", res.Rejected)
	}
}

func TestClassifyTotality(t *testing.T) {
	var pending []library.Track
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		pending = append(pending, library.Track{ID: id, Title: "Track " + id, Artist: "Artist " + id})
	}
	entries := []PlaylistEntry{
		{Title: "Track 2", Artist: "Artist 2"},
		{Title: "completely unrelated", Artist: "nobody"},
	}

	res := newTestClassifier(nil, 0.9).Classify(pending, entries)

	if got := len(res.Approved) + len(res.Rejected); got != len(pending) {
		t.Errorf("partition not exhaustive: %d approved + %d rejected != %d pending",
			len(res.Approved), len(res.Rejected), len(pending))
	}
}

func TestClassifyEmptyInputs(t *testing.T) {
	c := newTestClassifier(nil, 0.75)

	res := c.Classify(nil, []PlaylistEntry{{Title: "Anything", Artist: "Anyone"}})
	if len(res.Approved) != 0 || len(res.Rejected) != 0 {
		t.Errorf("expected empty partition for empty pending, got %+v", res)
	}
	if len(res.Unmatched) != 1 {
		t.Errorf("expected the entry reported unmatched, got %+v", res.Unmatched)
	}

	pending := []library.Track{{ID: "a", Title: "Song A", Artist: "X"}}
	res = c.Classify(pending, nil)
	if len(res.Approved) != 0 || len(res.Rejected) != 1 {
		t.Errorf("expected everything rejected with no entries, got %+v", res)
	}
}

// fixedSim scores by exact match of pre-set pairs, zero otherwise.
type fixedSim map[[2]string]float64

func (f fixedSim) Ratio(a, b string) float64 {
	return f[[2]string{a, b}]
}

func TestClassifyGreedyOneToOne(t *testing.T) {
	// Two near-identical pending tracks, one playlist entry. The entry
	// must approve only the higher-scoring track.
	pending := []library.Track{
		{ID: "live", Title: "Song A (Live)", Artist: "X"},
		{ID: "studio", Title: "Song A", Artist: "X"},
	}
	entries := []PlaylistEntry{{Title: "Song A", Artist: "X"}}

	sim := fixedSim{
		{"Song A X", "Song A (Live) X"}: 0.85,
		{"Song A X", "Song A X"}:        1.0,
	}

	res := newTestClassifier(sim, 0.75).Classify(pending, entries)

	if len(res.Approved) != 1 || res.Approved[0].ID != "studio" {
		t.Fatalf("expected only the best match approved, got %+v", res.Approved)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].ID != "live" {
		t.Fatalf("expected the runner-up rejected, got %+v", res.Rejected)
	}
}

func TestClassifyTieBreaksOnID(t *testing.T) {
	pending := []library.Track{
		{ID: "zzz", Title: "Song", Artist: "X"},
		{ID: "aaa", Title: "Song", Artist: "X"},
	}
	entries := []PlaylistEntry{{Title: "Song", Artist: "X"}}

	sim := fixedSim{
		{"Song X", "Song X"}: 1.0,
	}

	res := newTestClassifier(sim, 0.75).Classify(pending, entries)

	if len(res.Approved) != 1 || res.Approved[0].ID != "aaa" {
		t.Fatalf("expected the lexically smaller ID to win a tie, got %+v", res.Approved)
	}
}

func TestClassifyBelowThreshold(t *testing.T) {
	pending := []library.Track{{ID: "a", Title: "Song A", Artist: "X"}}
	entries := []PlaylistEntry{{Title: "Song A", Artist: "X"}}

	sim := fixedSim{
		{"Song A X", "Song A X"}: 0.6,
	}

	res := newTestClassifier(sim, 0.75).Classify(pending, entries)
	if len(res.Approved) != 0 {
		t.Errorf("score below threshold must not approve, got %+v", res.Approved)
	}
	if len(res.Unmatched) != 1 {
		t.Errorf("expected the entry unmatched, got %+v", res.Unmatched)
	}
}

func TestJaroWinklerNormalizes(t *testing.T) {
	sim := JaroWinkler{}
	if r := sim.Ratio("Song A - X!", "song a x"); r < 0.99 {
		t.Errorf("expected near-exact match after normalization, got %f", r)
	}
	if r := sim.Ratio("abc", "abc"); r != 1.0 {
		t.Errorf("expected 1.0 for identical strings, got %f", r)
	}
}
