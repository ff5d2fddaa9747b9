package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestRunApproveEmptyPending(t *testing.T) {
	dir := t.TempDir()
	prev := viper.GetString("database")
	viper.Set("database", filepath.Join(dir, "attune.db"))
	t.Cleanup(func() { viper.Set("database", prev) })

	playlistPath := filepath.Join(dir, "kept.txt")
	if err := os.WriteFile(playlistPath, []byte("Song A\tArtist X\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// An empty pending batch is a degraded run, not a failure.
	if err := runApprove(playlistPath); err != nil {
		t.Errorf("approve with no pending batch should warn and succeed, got %v", err)
	}
}
