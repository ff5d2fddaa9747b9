package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/calebmls/attune/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows collection sizes and the pending batch",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStatus(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.Counts()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Collection", "Tracks"})
	for _, state := range []string{store.StateOwned, store.StatePending, store.StateApproved, store.StateRejected} {
		if err := table.Append([]string{state, strconv.Itoa(counts[state])}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if counts[store.StatePending] > 0 {
		pending, err := s.Pending()
		if err != nil {
			return err
		}
		fmt.Println("Pending batch:")
		return renderTracks(pending)
	}
	return nil
}
