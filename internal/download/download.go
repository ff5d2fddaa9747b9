// Package download fetches audio and artwork for a candidate batch so
// tracks can be auditioned offline.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/kkdai/youtube/v2"

	"github.com/calebmls/attune/internal/library"
)

var videoIDPattern = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)

type Downloader struct {
	http   *resty.Client
	yt     youtube.Client
	dir    string
	logger *log.Logger
}

func New(dir string) *Downloader {
	return &Downloader{
		http: resty.New().
			SetTimeout(60 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)"),
		dir:    dir,
		logger: log.Default(),
	}
}

func (d *Downloader) SetLogger(l *log.Logger) {
	d.logger = l
}

// Fetch downloads audio and artwork for each track. Per-track failures
// are logged and skipped; the batch is for auditioning, so a missing
// track just means one less candidate to listen to. Returns how many
// tracks were fetched.
func (d *Downloader) Fetch(ctx context.Context, tracks []library.Track) (int, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return 0, fmt.Errorf("creating download dir: %w", err)
	}

	fetched := 0
	for _, t := range tracks {
		if err := d.fetchOne(ctx, t); err != nil {
			d.logger.Warn("download failed, skipping track", "track", t.Display(), "err", err)
			continue
		}
		fetched++
		d.logger.Info("downloaded", "track", t.Display())
	}
	return fetched, nil
}

func (d *Downloader) fetchOne(ctx context.Context, t library.Track) error {
	videoID, err := d.searchVideoID(ctx, t.Artist+" "+t.Title+" audio")
	if err != nil {
		return err
	}

	if err := d.saveAudio(ctx, videoID, d.path(t, ".m4a")); err != nil {
		return err
	}

	if t.ArtworkURL != "" {
		if err := d.saveArtwork(ctx, t.ArtworkURL, d.path(t, ".jpg")); err != nil {
			// Artwork is cosmetic; the audio already landed.
			d.logger.Warn("artwork fetch failed", "track", t.Display(), "err", err)
		}
	}
	return nil
}

// searchVideoID scrapes the first video ID off the results page. There
// is no official search endpoint without an API key; the embedded JSON
// always carries videoId fields for the result list.
func (d *Downloader) searchVideoID(ctx context.Context, query string) (string, error) {
	resp, err := d.http.R().
		SetContext(ctx).
		SetQueryParam("search_query", query).
		Get("https://www.youtube.com/results")
	if err != nil {
		return "", fmt.Errorf("searching %q: %w", query, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("searching %q: status %d", query, resp.StatusCode())
	}

	m := videoIDPattern.FindSubmatch(resp.Body())
	if m == nil {
		return "", fmt.Errorf("no results for %q", query)
	}
	return string(m[1]), nil
}

func (d *Downloader) saveAudio(ctx context.Context, videoID, path string) error {
	video, err := d.yt.GetVideoContext(ctx, videoID)
	if err != nil {
		return fmt.Errorf("getting video %s: %w", videoID, err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return fmt.Errorf("video %s has no audio formats", videoID)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Bitrate > formats[j].Bitrate
	})

	stream, _, err := d.yt.GetStreamContext(ctx, video, &formats[0])
	if err != nil {
		return fmt.Errorf("getting stream for %s: %w", videoID, err)
	}
	defer stream.Close()

	return writeFile(path, stream)
}

func (d *Downloader) saveArtwork(ctx context.Context, url, path string) error {
	resp, err := d.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("fetching artwork: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetching artwork: status %d", resp.StatusCode())
	}
	return os.WriteFile(path, resp.Body(), 0644)
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func (d *Downloader) path(t library.Track, ext string) string {
	return filepath.Join(d.dir, sanitize(t.Artist+" - "+t.Title)+ext)
}

// sanitize strips characters that break filenames on common
// filesystems.
func sanitize(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return strings.TrimSpace(replacer.Replace(name))
}
