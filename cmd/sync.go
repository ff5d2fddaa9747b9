package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebmls/attune/internal/lastfm"
	"github.com/calebmls/attune/internal/spotify"
)

// Community tags shift slowly; refetching more often than this just
// burns API quota.
const genreUpdateInterval = 30 * 24 * time.Hour

var syncCmd = &cobra.Command{
	Use:   "sync <playlist>",
	Short: "Imports a library playlist into the owned corpus",
	Long: `Fetches every track of the given Spotify playlist (URL or bare ID)
and merges them into the owned corpus. Re-running is safe: tracks
already recorded are left untouched. Artist genres are refreshed from
last.fm when API keys are configured.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSync(cmd.Context(), args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context, playlist string) error {
	logger := newLogger()

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Lock(); err != nil {
		return err
	}
	defer s.Unlock()

	client, err := spotify.New(ctx, viper.GetString("spotify_id"), viper.GetString("spotify_secret"))
	if err != nil {
		return err
	}
	client.SetLogger(logger)

	tracks, err := client.PlaylistTracks(ctx, spotify.PlaylistID(playlist))
	if err != nil {
		return err
	}

	if err := client.AttachTempo(ctx, tracks); err != nil {
		logger.Warn("audio features unavailable, BPM left empty", "err", err)
	}

	if err := s.RecordOwned(tracks); err != nil {
		return fmt.Errorf("recording owned tracks: %w", err)
	}
	logger.Info("library synced", "tracks", len(tracks))

	if key := viper.GetString("lastfm_api_key"); key != "" {
		enricher := lastfm.NewEnricher(key, viper.GetString("lastfm_secret"))
		enricher.SetLogger(logger)
		if err := enricher.Run(ctx, s, genreUpdateInterval); err != nil {
			return fmt.Errorf("updating artist genres: %w", err)
		}
	} else {
		logger.Warn("lastfm_api_key not set, skipping genre enrichment")
	}

	return nil
}
