package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/calebmls/attune/internal/analysis"
)

var profileNumber int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Prints the taste profile built from owned and approved tracks",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProfile(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().IntVarP(&profileNumber, "number", "n", 10, "number of genres and artists to show")
}

func runProfile() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	corpus, err := s.Corpus()
	if err != nil {
		return err
	}
	if err := fillGenres(s, corpus); err != nil {
		return err
	}

	profile, err := analysis.Build(corpus)
	if err != nil {
		return err
	}

	fmt.Printf("Corpus: %d tracks", profile.TotalTracks)
	if profile.AvgBPM > 0 {
		fmt.Printf(", average BPM %.1f", profile.AvgBPM)
	}
	fmt.Println()

	genres := profile.Genres
	if len(genres) > profileNumber {
		genres = genres[:profileNumber]
	}
	if len(genres) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Genre", "Tracks"})
		for _, g := range genres {
			if err := table.Append([]string{g.Genre, strconv.Itoa(g.Count)}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	artists := profile.Artists
	if len(artists) > profileNumber {
		artists = artists[:profileNumber]
	}
	if len(artists) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Artist", "Tracks"})
		for _, a := range artists {
			if err := table.Append([]string{a.Name, strconv.Itoa(a.Count)}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(profile.Eras) > 0 {
		decades := make([]int, 0, len(profile.Eras))
		for d := range profile.Eras {
			decades = append(decades, d)
		}
		sort.Ints(decades)

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Decade", "Tracks"})
		for _, d := range decades {
			if err := table.Append([]string{fmt.Sprintf("%ds", d), strconv.Itoa(profile.Eras[d])}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	return nil
}
