// Package lastfm enriches corpus artists with genre tags from the
// last.fm community.
package lastfm

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"
	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	// Tags below this vote count are one-off noise (misspellings,
	// single-user jokes) rather than community consensus.
	minTagCount = 10

	maxGenresPerArtist = 5
)

// Saver is the store surface enrichment needs.
type Saver interface {
	ArtistsMissingGenres(cutoff time.Time) ([]string, error)
	SaveArtistGenres(artist string, genres []string) error
}

type Enricher struct {
	client  *lastfm.Api
	limiter *rate.Limiter
	logger  *log.Logger
}

func NewEnricher(apiKey, secret string) *Enricher {
	client := lastfm.New(apiKey, secret)
	client.SetUserAgent("attune/1.0")
	return &Enricher{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(1*time.Second), 1),
		logger:  log.Default(),
	}
}

func (e *Enricher) SetLogger(l *log.Logger) {
	e.logger = l
}

// Run fetches genre tags for every artist whose tags are older than
// interval. Per-artist fetch failures are logged and skipped so one
// flaky lookup doesn't abort the pass.
func (e *Enricher) Run(ctx context.Context, db Saver, interval time.Duration) error {
	artists, err := db.ArtistsMissingGenres(time.Now().Add(-interval))
	if err != nil {
		return err
	}

	e.logger.Info("updating artist genres", "artists", len(artists))

	for _, artist := range artists {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}

		genres, err := e.topGenres(artist)
		if err != nil {
			e.logger.Warn("fetching tags failed, skipping artist", "artist", artist, "err", err)
			continue
		}

		if err := db.SaveArtistGenres(artist, genres); err != nil {
			return err
		}
	}
	return nil
}

func (e *Enricher) topGenres(artist string) ([]string, error) {
	var topTags lastfm.ArtistGetTopTags
	err := retry.Do(
		func() error {
			var err error
			topTags, err = e.client.Artist.GetTopTags(lastfm.P{
				"artist":      artist,
				"autocorrect": 1,
			})
			return err
		},
		retry.RetryIf(func(err error) bool {
			if lerr, ok := err.(*lastfm.LastfmError); ok {
				return lerr.Code/100 == 5
			}
			return false
		}),
	)
	if err != nil {
		return nil, err
	}

	var tags []tag
	for _, t := range topTags.Tags {
		count, _ := strconv.Atoi(t.Count)
		tags = append(tags, tag{name: t.Name, count: count})
	}
	return filterTags(tags), nil
}

type tag struct {
	name  string
	count int
}

// filterTags keeps the strongest genre-shaped tags. Tags arrive
// sorted by count, so truncation after filtering keeps the top ones.
func filterTags(tags []tag) []string {
	var genres []string
	for _, t := range tags {
		if t.count < minTagCount {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(t.name))
		name = strings.ReplaceAll(name, "-", " ")
		name = strings.ReplaceAll(name, "_", " ")
		if name == "" || isNumeric(name) {
			continue
		}

		genres = append(genres, name)
		if len(genres) == maxGenresPerArtist {
			break
		}
	}
	return genres
}

// isNumeric screens out year tags like "90s" and "2001".
func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits > 0 && len(s)-digits <= 1
}
