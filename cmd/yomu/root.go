package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kerbaras/yomu/pkg/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "yomu",
	Short: "A manga reader for the terminal",
	Long:  "Read manga chapters with translation and colorization overlays, and keep them available offline",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		loaded = applyOverrides(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Launch the reader by default
		cobra.CheckErr(runReader(cmd.Context(), ""))
	},
}

func init() {
	addConfigFlags(rootCmd)
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("source", config.SourceMock, "Chapter source: mock or mangadex")
	flags.String("cache-version", "v1", "Version of the offline cache")
	flags.String("cache-db", "", "Path of the offline cache database")
	flags.String("origin", "", "Origin the application shell is served from")
}

// applyOverrides copies the flags the user set over the environment config.
func applyOverrides(cmd *cobra.Command, c config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("source") {
		c.Source, _ = flags.GetString("source")
	}
	if flags.Changed("cache-version") {
		c.CacheVersion, _ = flags.GetString("cache-version")
	}
	if flags.Changed("cache-db") {
		c.CacheDB, _ = flags.GetString("cache-db")
	}
	if flags.Changed("origin") {
		c.Origin, _ = flags.GetString("origin")
	}
	return c
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
