package spotify

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/zmb3/spotify/v2"

	"github.com/calebmls/attune/internal/library"
)

// Pool serves candidate draws from the Spotify catalog. Randomness
// comes from the caller's source so a seeded run stays reproducible.
type Pool struct {
	client *Client
	rng    *rand.Rand
}

func NewPool(client *Client, rng *rand.Rand) *Pool {
	return &Pool{client: client, rng: rng}
}

func (p *Pool) ByGenre(ctx context.Context, genre string, n int) ([]library.Track, error) {
	return p.search(ctx, fmt.Sprintf("genre:%q", genre), n, true)
}

// ByArtist pulls tracks from an artist's albums rather than their top
// tracks, so deep cuts surface instead of the same few hits.
func (p *Pool) ByArtist(ctx context.Context, artistID string, n int) ([]library.Track, error) {
	id, err := p.resolveArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	var albums *spotify.SimpleAlbumPage
	err = p.client.do(ctx, func() error {
		var err error
		albums, err = p.client.api.GetArtistAlbums(ctx, id,
			[]spotify.AlbumType{spotify.AlbumTypeAlbum, spotify.AlbumTypeSingle},
			spotify.Limit(20))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting albums for artist %s: %w", id, err)
	}

	shuffled := make([]spotify.SimpleAlbum, len(albums.Albums))
	copy(shuffled, albums.Albums)
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var tracks []library.Track
	for _, album := range shuffled {
		if len(tracks) >= n {
			break
		}

		var page *spotify.SimpleTrackPage
		err := p.client.do(ctx, func() error {
			var err error
			page, err = p.client.api.GetAlbumTracks(ctx, album.ID)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("getting tracks for album %s: %w", album.ID, err)
		}

		for _, st := range page.Tracks {
			if len(tracks) >= n {
				break
			}
			tracks = append(tracks, fromSimpleTrack(st, album))
		}
	}
	return tracks, nil
}

func (p *Pool) ByDecade(ctx context.Context, decade int, n int) ([]library.Track, error) {
	query := fmt.Sprintf("%c year:%d-%d", p.randomLetter(), decade, decade+9)
	return p.search(ctx, query, n, true)
}

// Random searches a random letter at a random offset. Crude, but it
// reaches parts of the catalog no profile-driven query ever would.
func (p *Pool) Random(ctx context.Context, n int) ([]library.Track, error) {
	return p.search(ctx, fmt.Sprintf("%c", p.randomLetter()), n, true)
}

func (p *Pool) randomLetter() rune {
	return rune('a' + p.rng.Intn(26))
}

func (p *Pool) search(ctx context.Context, query string, n int, randomOffset bool) ([]library.Track, error) {
	limit := n
	if limit > 50 {
		limit = 50
	}

	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if randomOffset {
		opts = append(opts, spotify.Offset(p.rng.Intn(200)))
	}

	var res *spotify.SearchResult
	err := p.client.do(ctx, func() error {
		var err error
		res, err = p.client.api.Search(ctx, query, spotify.SearchTypeTrack, opts...)
		return err
	})
	if err != nil {
		var se spotify.Error
		// A random offset can point past the result set; treat that as
		// an empty draw, not a failure.
		if errors.As(err, &se) && se.Status == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	if res.Tracks == nil {
		return nil, nil
	}

	tracks := make([]library.Track, 0, len(res.Tracks.Tracks))
	for _, ft := range res.Tracks.Tracks {
		tracks = append(tracks, fromFullTrack(ft))
	}
	return tracks, nil
}

// resolveArtist accepts either a Spotify artist ID or, for corpus
// entries that never carried one, an artist name to look up.
func (p *Pool) resolveArtist(ctx context.Context, artistID string) (spotify.ID, error) {
	if looksLikeID(artistID) {
		return spotify.ID(artistID), nil
	}

	var res *spotify.SearchResult
	err := p.client.do(ctx, func() error {
		var err error
		res, err = p.client.api.Search(ctx, fmt.Sprintf("artist:%q", artistID),
			spotify.SearchTypeArtist, spotify.Limit(1))
		return err
	})
	if err != nil {
		return "", fmt.Errorf("resolving artist %q: %w", artistID, err)
	}
	if res.Artists == nil || len(res.Artists.Artists) == 0 {
		return "", nil
	}
	return res.Artists.Artists[0].ID, nil
}

// Spotify IDs are 22 base62 characters.
func looksLikeID(s string) bool {
	if len(s) != 22 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
