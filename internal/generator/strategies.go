package generator

import (
	"context"
	"math/rand"

	"github.com/calebmls/attune/internal/analysis"
	"github.com/calebmls/attune/internal/library"
)

const (
	nameGenre    = "genre-affinity"
	nameArtist   = "artist-exploration"
	nameTemporal = "temporal-diversity"
	nameRandom   = "random-exploration"

	// fetchSize is how many tracks a strategy asks the pool for per
	// refill.
	fetchSize = 10
)

// strategy is the common "produce next candidate" capability. next
// returns ok=false once the strategy's pool is exhausted.
type strategy interface {
	next(ctx context.Context) (library.Track, bool, error)
}

func (g *Generator) newStrategy(name string, profile *analysis.Profile) strategy {
	switch name {
	case nameGenre:
		s := &genreAffinity{pool: g.pool, rng: g.rng}
		if profile != nil {
			s.genres = append(s.genres, profile.Genres...)
		}
		return s
	case nameArtist:
		s := &artistExploration{pool: g.pool, rng: g.rng}
		if profile != nil {
			s.artists = append(s.artists, profile.MidTierArtists()...)
		}
		return s
	case nameTemporal:
		s := &temporalDiversity{pool: g.pool, rng: g.rng}
		if profile != nil {
			s.decades = profile.UnderRepresentedDecades()
		}
		return s
	default:
		return &randomExploration{pool: g.pool}
	}
}

// genreAffinity draws from the top-ranked genres, weighted by their
// profile counts (sampling without replacement: a drained genre is
// dropped from the pool).
type genreAffinity struct {
	pool   Pool
	rng    *rand.Rand
	genres []analysis.GenreCount
	buf    []library.Track
}

func (s *genreAffinity) next(ctx context.Context) (library.Track, bool, error) {
	for len(s.buf) == 0 {
		if len(s.genres) == 0 {
			return library.Track{}, false, nil
		}

		i := s.pickWeighted()
		tracks, err := s.pool.ByGenre(ctx, s.genres[i].Genre, fetchSize)
		if err != nil {
			return library.Track{}, false, err
		}
		if len(tracks) == 0 {
			// Genre drained; remove it so the remaining weight mass
			// shifts to the others.
			s.genres = append(s.genres[:i], s.genres[i+1:]...)
			continue
		}
		s.buf = tracks
	}

	t := s.buf[0]
	s.buf = s.buf[1:]
	return t, true, nil
}

func (s *genreAffinity) pickWeighted() int {
	total := 0
	for _, g := range s.genres {
		total += g.Count
	}
	if total <= 0 {
		return s.rng.Intn(len(s.genres))
	}

	r := s.rng.Intn(total)
	for i, g := range s.genres {
		r -= g.Count
		if r < 0 {
			return i
		}
	}
	return len(s.genres) - 1
}

// artistExploration draws uniformly from the mid-tier artist band.
type artistExploration struct {
	pool    Pool
	rng     *rand.Rand
	artists []analysis.ArtistCount
	buf     []library.Track
}

func (s *artistExploration) next(ctx context.Context) (library.Track, bool, error) {
	for len(s.buf) == 0 {
		if len(s.artists) == 0 {
			return library.Track{}, false, nil
		}

		i := s.rng.Intn(len(s.artists))
		tracks, err := s.pool.ByArtist(ctx, s.artists[i].ID, fetchSize)
		if err != nil {
			return library.Track{}, false, err
		}
		// Each artist is visited at most once per run.
		s.artists = append(s.artists[:i], s.artists[i+1:]...)
		s.buf = tracks
	}

	t := s.buf[0]
	s.buf = s.buf[1:]
	return t, true, nil
}

// temporalDiversity samples uniformly from decades the corpus
// under-represents, falling back to unweighted random tracks when the
// era histogram is empty.
type temporalDiversity struct {
	pool    Pool
	rng     *rand.Rand
	decades []int
	buf     []library.Track
}

func (s *temporalDiversity) next(ctx context.Context) (library.Track, bool, error) {
	for len(s.buf) == 0 {
		if len(s.decades) == 0 {
			// Histogram empty or drained: unweighted random fallback.
			tracks, err := s.pool.Random(ctx, fetchSize)
			if err != nil {
				return library.Track{}, false, err
			}
			if len(tracks) == 0 {
				return library.Track{}, false, nil
			}
			s.buf = tracks
			break
		}

		i := s.rng.Intn(len(s.decades))
		tracks, err := s.pool.ByDecade(ctx, s.decades[i], fetchSize)
		if err != nil {
			return library.Track{}, false, err
		}
		if len(tracks) == 0 {
			s.decades = append(s.decades[:i], s.decades[i+1:]...)
			continue
		}
		s.buf = tracks
	}

	t := s.buf[0]
	s.buf = s.buf[1:]
	return t, true, nil
}

// randomExploration has no profile bias at all; it exists to keep the
// other strategies from closing into a feedback loop.
type randomExploration struct {
	pool Pool
	buf  []library.Track
}

func (s *randomExploration) next(ctx context.Context) (library.Track, bool, error) {
	if len(s.buf) == 0 {
		tracks, err := s.pool.Random(ctx, fetchSize)
		if err != nil {
			return library.Track{}, false, err
		}
		if len(tracks) == 0 {
			return library.Track{}, false, nil
		}
		s.buf = tracks
	}

	t := s.buf[0]
	s.buf = s.buf[1:]
	return t, true, nil
}
