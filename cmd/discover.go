package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebmls/attune/internal/analysis"
	"github.com/calebmls/attune/internal/download"
	"github.com/calebmls/attune/internal/generator"
	"github.com/calebmls/attune/internal/spotify"
)

var discoverCount int
var discoverSeed int64
var discoverDownload bool
var discoverDir string

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Generates a new candidate batch from your taste profile",
	Long: `Builds the taste profile from owned and approved tracks, then draws
candidates from Spotify with the four weighted strategies. The batch
replaces any pending batch from a previous run.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDiscover(cmd.Context()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().IntVarP(&discoverCount, "count", "n", 100, "number of candidates to generate")
	discoverCmd.Flags().Int64Var(&discoverSeed, "seed", 0, "random seed (0 picks one from the clock)")
	discoverCmd.Flags().BoolVar(&discoverDownload, "download", false, "download audio and artwork for the batch")
	discoverCmd.Flags().StringVar(&discoverDir, "download_dir", "./downloads", "directory for downloaded batches")
}

func runDiscover(ctx context.Context) error {
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

	corpus, err := s.Corpus()
	if err != nil {
		return err
	}
	if err := fillGenres(s, corpus); err != nil {
		return err
	}

	profile, err := analysis.Build(corpus)
	if errors.Is(err, analysis.ErrNoSignal) {
		logger.Warn("no taste signal yet, falling back to pure random exploration")
		profile = nil
	} else if err != nil {
		return err
	}

	excluded, err := s.ExclusionSet()
	if err != nil {
		return err
	}

	client, err := spotify.New(ctx, viper.GetString("spotify_id"), viper.GetString("spotify_secret"))
	if err != nil {
		return err
	}
	client.SetLogger(logger)

	seed := discoverSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("seeding generator", "seed", seed)
	rng := rand.New(rand.NewSource(seed))

	gen := generator.New(spotify.NewPool(client, rng), rng)
	gen.SetLogger(logger)

	batch, err := gen.Generate(ctx, profile, excluded, discoverCount)
	if err != nil {
		return err
	}

	if err := s.RecordPending(batch.ID, batch.Tracks); err != nil {
		return fmt.Errorf("recording pending batch: %w", err)
	}
	logger.Info("batch recorded",
		"batch", batch.ID, "requested", batch.Requested, "produced", batch.Produced())

	if err := renderTracks(batch.Tracks); err != nil {
		return err
	}

	if discoverDownload {
		d := download.New(discoverDir)
		d.SetLogger(logger)
		fetched, err := d.Fetch(ctx, batch.Tracks)
		if err != nil {
			return err
		}
		logger.Info("downloads complete", "fetched", fetched, "tracks", batch.Produced())
	}

	return nil
}
