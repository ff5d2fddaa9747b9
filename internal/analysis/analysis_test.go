package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/calebmls/attune/internal/library"
)

func TestBuildEmptyCorpus(t *testing.T) {
	p, err := Build(nil)
	if !errors.Is(err, ErrNoSignal) {
		t.Fatalf("expected ErrNoSignal, got %v", err)
	}
	if p != nil {
		t.Errorf("expected nil profile, got %+v", p)
	}
}

func TestBuildGenreRanking(t *testing.T) {
	corpus := []library.Track{
		{ID: "1", Title: "A", Artist: "X", Genres: []string{"indie rock", "shoegaze"}},
		{ID: "2", Title: "B", Artist: "X", Genres: []string{"indie rock"}},
		{ID: "3", Title: "C", Artist: "Y", Genres: []string{"shoegaze"}},
		{ID: "4", Title: "D", Artist: "Y", Genres: []string{"dream pop"}},
	}

	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.Genres[0].Genre != "indie rock" || p.Genres[0].Count != 2 {
		t.Errorf("expected indie rock (2) first, got %+v", p.Genres[0])
	}
	// shoegaze also has count 2 but was first seen after indie rock.
	if p.Genres[1].Genre != "shoegaze" {
		t.Errorf("expected tie broken by first-seen order, got %+v", p.Genres[1])
	}
	if p.Genres[2].Genre != "dream pop" || p.Genres[2].Count != 1 {
		t.Errorf("expected dream pop (1) last, got %+v", p.Genres[2])
	}
}

func TestBuildArtistRanking(t *testing.T) {
	corpus := []library.Track{
		{ID: "1", Title: "A", Artist: "Beach House", ArtistID: "bh"},
		{ID: "2", Title: "B", Artist: "Beach House", ArtistID: "bh"},
		{ID: "3", Title: "C", Artist: "Slowdive"},
	}

	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.Artists[0].ID != "bh" || p.Artists[0].Name != "Beach House" || p.Artists[0].Count != 2 {
		t.Errorf("unexpected top artist: %+v", p.Artists[0])
	}
	if p.Artists[1].ID != "slowdive" {
		t.Errorf("expected normalized-name fallback ID, got %q", p.Artists[1].ID)
	}
}

func TestBuildAvgBPMSkipsMissing(t *testing.T) {
	corpus := []library.Track{
		{ID: "1", Title: "A", Artist: "X", BPM: 120},
		{ID: "2", Title: "B", Artist: "X", BPM: 100},
		{ID: "3", Title: "C", Artist: "X"}, // no tempo, excluded from mean
	}

	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.AvgBPM != 110 {
		t.Errorf("expected avg BPM 110, got %f", p.AvgBPM)
	}
}

func TestBuildEraHistogramDropsUnknownYears(t *testing.T) {
	corpus := []library.Track{
		{ID: "1", Title: "A", Artist: "X", Year: 1994},
		{ID: "2", Title: "B", Artist: "X", Year: 1999},
		{ID: "3", Title: "C", Artist: "X", Year: 2003},
		{ID: "4", Title: "D", Artist: "X"}, // unknown year, dropped
	}

	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if p.Eras[1990] != 2 || p.Eras[2000] != 1 {
		t.Errorf("unexpected era histogram: %v", p.Eras)
	}
	if len(p.Eras) != 2 {
		t.Errorf("expected 2 decades, got %d", len(p.Eras))
	}
}

func TestMidTierArtists(t *testing.T) {
	// 20 artists with descending counts: band should be ranks 2..9
	// (indexes), i.e. strictly between top decile (2) and half (10).
	var corpus []library.Track
	for i := 0; i < 20; i++ {
		for j := 0; j <= 20-i; j++ {
			corpus = append(corpus, library.Track{
				ID:     fmt.Sprintf("%d-%d", i, j),
				Title:  fmt.Sprintf("t%d-%d", i, j),
				Artist: fmt.Sprintf("artist%02d", i),
			})
		}
	}

	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	mid := p.MidTierArtists()
	if len(mid) != 8 {
		t.Fatalf("expected 8 mid-tier artists, got %d", len(mid))
	}
	if mid[0].Name != "artist02" || mid[7].Name != "artist09" {
		t.Errorf("unexpected band boundaries: %s .. %s", mid[0].Name, mid[7].Name)
	}
}

func TestMidTierArtistsTinyCorpus(t *testing.T) {
	corpus := []library.Track{
		{ID: "1", Title: "A", Artist: "X"},
		{ID: "2", Title: "B", Artist: "Y"},
	}
	p, err := Build(corpus)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if mid := p.MidTierArtists(); mid != nil {
		t.Errorf("expected empty mid tier for 2 artists, got %v", mid)
	}
}

func TestUnderRepresentedDecades(t *testing.T) {
	p := &Profile{Eras: map[int]int{1970: 1, 1990: 10, 2000: 10, 2010: 3}}
	// mean = 6; below: 1970 and 2010.
	got := p.UnderRepresentedDecades()
	if len(got) != 2 || got[0] != 1970 || got[1] != 2010 {
		t.Errorf("unexpected decades: %v", got)
	}

	empty := &Profile{Eras: map[int]int{}}
	if d := empty.UnderRepresentedDecades(); d != nil {
		t.Errorf("expected nil for empty histogram, got %v", d)
	}
}
