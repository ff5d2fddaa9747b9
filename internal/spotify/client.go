// Package spotify wraps the Spotify Web API for library sync and
// candidate retrieval.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/calebmls/attune/internal/library"
)

// Client-credentials flow only reaches public data, which is all this
// tool needs: public playlists, search, and track metadata.
type Client struct {
	api     *spotify.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

func New(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify client ID and secret must be configured")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := config.Client(ctx)

	return &Client{
		api: spotify.New(httpClient),
		// Spotify tolerates bursts but throttles sustained traffic
		// well below this; stay comfortably under.
		limiter: rate.NewLimiter(rate.Limit(8), 4),
		logger:  log.Default(),
	}, nil
}

func (c *Client) SetLogger(l *log.Logger) {
	c.logger = l
}

func (c *Client) do(ctx context.Context, fn func() error) error {
	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			return fn()
		},
		retry.Attempts(4),
		retry.RetryIf(isTransient),
	)
}

func isTransient(err error) bool {
	var se spotify.Error
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= http.StatusInternalServerError
	}
	return false
}

// PlaylistID extracts a playlist ID from an open.spotify.com URL, or
// returns the input unchanged if it is already a bare ID.
func PlaylistID(s string) spotify.ID {
	if i := strings.Index(s, "/playlist/"); i >= 0 {
		s = s[i+len("/playlist/"):]
		s, _, _ = strings.Cut(s, "?")
	}
	return spotify.ID(s)
}

// PlaylistTracks fetches every track of a playlist, following
// pagination to the end.
func (c *Client) PlaylistTracks(ctx context.Context, id spotify.ID) ([]library.Track, error) {
	var res *spotify.FullPlaylist
	err := c.do(ctx, func() error {
		var err error
		res, err = c.api.GetPlaylist(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting playlist %s: %w", id, err)
	}

	var tracks []library.Track
	page := res.Tracks
	for {
		for _, item := range page.Tracks {
			if item.Track.ID == "" || item.IsLocal {
				continue
			}
			t := fromFullTrack(item.Track)
			if added, err := time.Parse(spotify.TimestampLayout, item.AddedAt); err == nil {
				t.AddedAt = added
			}
			tracks = append(tracks, t)
		}

		err := c.do(ctx, func() error {
			return c.api.NextPage(ctx, &page)
		})
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("paging playlist %s: %w", id, err)
		}
	}

	c.logger.Info("fetched playlist", "playlist", res.Name, "tracks", len(tracks))
	return tracks, nil
}

// AttachTempo fills BPM from the audio-features endpoint, batching by
// the API's 100-ID limit. Tracks without features keep BPM zero.
func (c *Client) AttachTempo(ctx context.Context, tracks []library.Track) error {
	for lo := 0; lo < len(tracks); lo += 100 {
		hi := lo + 100
		if hi > len(tracks) {
			hi = len(tracks)
		}

		ids := make([]spotify.ID, 0, hi-lo)
		for _, t := range tracks[lo:hi] {
			ids = append(ids, spotify.ID(t.ID))
		}

		var features []*spotify.AudioFeatures
		err := c.do(ctx, func() error {
			var err error
			features, err = c.api.GetAudioFeatures(ctx, ids...)
			return err
		})
		if err != nil {
			return fmt.Errorf("getting audio features: %w", err)
		}

		for i, f := range features {
			if f != nil {
				tracks[lo+i].BPM = float64(f.Tempo)
			}
		}
	}
	return nil
}

func fromFullTrack(ft spotify.FullTrack) library.Track {
	artists := make([]string, len(ft.Artists))
	for i, a := range ft.Artists {
		artists[i] = a.Name
	}

	t := library.Track{
		ID:     string(ft.ID),
		Title:  ft.Name,
		Artist: strings.Join(artists, ", "),
		Album:  ft.Album.Name,
		Year:   releaseYear(ft.Album.ReleaseDate),
		URI:    string(ft.URI),
	}
	if len(ft.Artists) > 0 {
		t.ArtistID = string(ft.Artists[0].ID)
		t.AlbumArtist = ft.Artists[0].Name
	}
	if len(ft.Album.Images) > 0 {
		t.ArtworkURL = ft.Album.Images[0].URL
	}
	return t
}

func fromSimpleTrack(st spotify.SimpleTrack, album spotify.SimpleAlbum) library.Track {
	artists := make([]string, len(st.Artists))
	for i, a := range st.Artists {
		artists[i] = a.Name
	}

	t := library.Track{
		ID:     string(st.ID),
		Title:  st.Name,
		Artist: strings.Join(artists, ", "),
		Album:  album.Name,
		Year:   releaseYear(album.ReleaseDate),
		URI:    string(st.URI),
	}
	if len(st.Artists) > 0 {
		t.ArtistID = string(st.Artists[0].ID)
		t.AlbumArtist = st.Artists[0].Name
	}
	if len(album.Images) > 0 {
		t.ArtworkURL = album.Images[0].URL
	}
	return t
}

// Release dates come back as "2006", "2006-01" or "2006-01-02".
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
