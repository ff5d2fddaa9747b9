package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/calebmls/attune/internal/classifier"
	"github.com/calebmls/attune/internal/store"
)

var cfgFile string
var databasePath string
var spotifyID string
var spotifySecret string
var lastFmApiKey string
var lastFmSecret string
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "attune",
	Short: "Personal music discovery pipeline",
	Long: `Builds a taste profile from your library, proposes candidate
tracks you don't own yet, and folds your listening verdicts back in.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.attune.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./attune.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(&spotifyID, "spotify_id", "", "Spotify client ID")
	viper.BindPFlag("spotify_id", rootCmd.PersistentFlags().Lookup("spotify_id"))

	rootCmd.PersistentFlags().StringVar(&spotifySecret, "spotify_secret", "", "Spotify client secret")
	viper.BindPFlag("spotify_secret", rootCmd.PersistentFlags().Lookup("spotify_secret"))

	rootCmd.PersistentFlags().StringVar(&lastFmApiKey, "lastfm_api_key", "", "last.fm API key")
	viper.BindPFlag("lastfm_api_key", rootCmd.PersistentFlags().Lookup("lastfm_api_key"))

	rootCmd.PersistentFlags().StringVar(&lastFmSecret, "lastfm_secret", "", "last.fm secret")
	viper.BindPFlag("lastfm_secret", rootCmd.PersistentFlags().Lookup("lastfm_secret"))

	var threshold float64
	rootCmd.PersistentFlags().Float64Var(
		&threshold, "match_threshold", classifier.DefaultThreshold,
		"minimum similarity for a playlist entry to approve a pending track")
	viper.BindPFlag("match_threshold", rootCmd.PersistentFlags().Lookup("match_threshold"))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".attune" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".attune")
	}

	viper.SetEnvPrefix("attune")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func openStore() (*store.Store, error) {
	return store.New(viper.GetString("database"))
}
