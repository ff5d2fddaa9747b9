package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebmls/attune/internal/classifier"
	"github.com/calebmls/attune/internal/playlist"
)

var approveCmd = &cobra.Command{
	Use:   "approve <playlist-file>",
	Short: "Applies a listening verdict to the pending batch",
	Long: `Reads an exported playlist of the tracks you kept and matches it
against the pending batch. Matched tracks are approved, the rest are
rejected, and the batch is cleared. Matching is fuzzy; tune
--match_threshold if the export mangles titles badly.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runApprove(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
}

func runApprove(playlistPath string) error {
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

	pending, err := s.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		// Nothing in flight is a degraded run, not a failure.
		logger.Warn("no pending batch to approve; run discover first")
		return nil
	}

	entries, err := playlist.ReadFile(playlistPath)
	if err != nil {
		return err
	}

	c := classifier.New(nil, viper.GetFloat64("match_threshold"))
	c.SetLogger(logger)
	res := c.Classify(pending, entries)

	if err := s.Commit(res.Approved, res.Rejected); err != nil {
		return fmt.Errorf("committing verdict: %w", err)
	}

	logger.Info("verdict committed",
		"approved", len(res.Approved),
		"rejected", len(res.Rejected),
		"unmatched", len(res.Unmatched))

	if len(res.Approved) > 0 {
		fmt.Println("Approved:")
		if err := renderTracks(res.Approved); err != nil {
			return err
		}
	}
	return nil
}
