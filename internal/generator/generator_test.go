package generator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/calebmls/attune/internal/analysis"
	"github.com/calebmls/attune/internal/library"
)

// fakePool serves unlimited unique tracks, tagged by the strategy entry
// point that fetched them so tests can audit batch composition.
type fakePool struct {
	n int

	// limit caps the total tracks served when > 0, to simulate a
	// drained upstream.
	limit int

	// extra tracks are served first, verbatim (for exclusion/dedup
	// scenarios).
	extra []library.Track
}

func (p *fakePool) serve(prefix string, n int) []library.Track {
	var out []library.Track
	for len(p.extra) > 0 && len(out) < n {
		out = append(out, p.extra[0])
		p.extra = p.extra[1:]
	}
	for len(out) < n {
		if p.limit > 0 && p.n >= p.limit {
			break
		}
		p.n++
		out = append(out, library.Track{
			ID:     fmt.Sprintf("%s-%d", prefix, p.n),
			Title:  fmt.Sprintf("title %d", p.n),
			Artist: fmt.Sprintf("artist %d", p.n),
		})
	}
	return out
}

func (p *fakePool) ByGenre(_ context.Context, genre string, n int) ([]library.Track, error) {
	return p.serve("g", n), nil
}

func (p *fakePool) ByArtist(_ context.Context, artistID string, n int) ([]library.Track, error) {
	return p.serve("a", n), nil
}

func (p *fakePool) ByDecade(_ context.Context, decade int, n int) ([]library.Track, error) {
	return p.serve("d", n), nil
}

func (p *fakePool) Random(_ context.Context, n int) ([]library.Track, error) {
	return p.serve("r", n), nil
}

func testProfile() *analysis.Profile {
	p := &analysis.Profile{
		Genres: []analysis.GenreCount{
			{Genre: "indie rock", Count: 20},
			{Genre: "shoegaze", Count: 10},
		},
		Eras:        map[int]int{1980: 1, 1990: 8, 2000: 9},
		TotalTracks: 40,
	}
	for i := 0; i < 20; i++ {
		p.Artists = append(p.Artists, analysis.ArtistCount{
			ID:    fmt.Sprintf("ar%02d", i),
			Name:  fmt.Sprintf("artist%02d", i),
			Count: 21 - i,
		})
	}
	return p
}

func newTestGenerator(pool Pool) *Generator {
	g := New(pool, rand.New(rand.NewSource(42)))
	g.SetLogger(log.New(io.Discard))
	return g
}

func countByPrefix(batch Batch) map[string]int {
	counts := make(map[string]int)
	for _, t := range batch.Tracks {
		counts[strings.SplitN(t.ID, "-", 2)[0]]++
	}
	return counts
}

func TestGenerateQuotaProportionality(t *testing.T) {
	g := newTestGenerator(&fakePool{})

	batch, err := g.Generate(context.Background(), testProfile(), map[string]bool{}, 100)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if batch.Produced() != 100 {
		t.Fatalf("expected 100 tracks, got %d", batch.Produced())
	}

	counts := countByPrefix(batch)
	if counts["g"] != 40 || counts["a"] != 30 || counts["d"] != 20 || counts["r"] != 10 {
		t.Errorf("unexpected strategy composition: %v", counts)
	}
	if len(batch.Shortfalls) != 0 {
		t.Errorf("expected no shortfalls, got %v", batch.Shortfalls)
	}
}

func TestGenerateExclusionInvariant(t *testing.T) {
	excludedTrack := library.Track{ID: "banned", Title: "Banned Song", Artist: "Nobody"}
	pool := &fakePool{extra: []library.Track{excludedTrack, excludedTrack, excludedTrack, excludedTrack}}
	g := newTestGenerator(pool)

	excluded := map[string]bool{"banned": true}
	batch, err := g.Generate(context.Background(), testProfile(), excluded, 50)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, tr := range batch.Tracks {
		if excluded[tr.ID] {
			t.Errorf("excluded track %q in output", tr.ID)
		}
	}
	if batch.Produced() != 50 {
		t.Errorf("exclusion should not shrink the batch while the pool has supply, got %d", batch.Produced())
	}
}

func TestGenerateDedupInvariant(t *testing.T) {
	// Same song under two source IDs; only one may survive.
	dupe1 := library.Track{ID: "x1", Title: "Same Song", Artist: "Same Artist"}
	dupe2 := library.Track{ID: "x2", Title: "same song!", Artist: "SAME ARTIST"}
	pool := &fakePool{extra: []library.Track{dupe1, dupe2}}
	g := newTestGenerator(pool)

	batch, err := g.Generate(context.Background(), testProfile(), map[string]bool{}, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	keys := make(map[string]int)
	for _, tr := range batch.Tracks {
		keys[tr.Key()]++
	}
	for k, n := range keys {
		if n > 1 {
			t.Errorf("dedup key %q appears %d times", k, n)
		}
	}
}

func TestGenerateShortfall(t *testing.T) {
	pool := &fakePool{limit: 25}
	g := newTestGenerator(pool)

	batch, err := g.Generate(context.Background(), testProfile(), map[string]bool{}, 100)
	if err != nil {
		t.Fatalf("shortfall must not be an error: %v", err)
	}

	if batch.Produced() != 25 {
		t.Errorf("expected 25 tracks, got %d", batch.Produced())
	}
	if batch.Requested != 100 {
		t.Errorf("expected requested=100, got %d", batch.Requested)
	}
	total := 0
	for _, n := range batch.Shortfalls {
		total += n
	}
	if total != 75 {
		t.Errorf("expected 75 missing slots recorded, got %d (%v)", total, batch.Shortfalls)
	}
}

func TestGenerateNoSignalFallsBackToRandom(t *testing.T) {
	g := newTestGenerator(&fakePool{})

	batch, err := g.Generate(context.Background(), nil, map[string]bool{"r-1": true}, 20)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if batch.Produced() != 20 {
		t.Fatalf("expected 20 tracks, got %d", batch.Produced())
	}
	counts := countByPrefix(batch)
	if counts["r"] != 20 {
		t.Errorf("expected all tracks from random exploration, got %v", counts)
	}
	for _, tr := range batch.Tracks {
		if tr.ID == "r-1" {
			t.Errorf("excluded track r-1 in no-signal output")
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	run := func() []string {
		g := newTestGenerator(&fakePool{})
		batch, err := g.Generate(context.Background(), testProfile(), map[string]bool{}, 40)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		var ids []string
		for _, tr := range batch.Tracks {
			ids = append(ids, tr.ID)
		}
		return ids
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs diverge at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestSplitQuota(t *testing.T) {
	profile := testProfile()

	cases := []struct {
		target int
		want   []int // genre, artist, temporal, random
	}{
		{100, []int{40, 30, 20, 10}},
		{10, []int{4, 3, 2, 1}},
		{5, []int{3, 1, 1, 0}},
		{0, []int{0, 0, 0, 0}},
	}

	for _, c := range cases {
		quotas := splitQuota(c.target, profile)
		for i, q := range quotas {
			if q.count != c.want[i] {
				t.Errorf("splitQuota(%d): %s = %d, want %d", c.target, q.name, q.count, c.want[i])
			}
		}
	}

	noSignal := splitQuota(10, nil)
	if len(noSignal) != 1 || noSignal[0].name != nameRandom || noSignal[0].count != 10 {
		t.Errorf("expected whole quota on random exploration, got %v", noSignal)
	}
}
