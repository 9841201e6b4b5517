package cmd

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kerbaras/yomu/pkg/app"
	"github.com/kerbaras/yomu/pkg/app/screens"
)

var readCmd = &cobra.Command{
	Use:   "read [chapter-url]",
	Short: "Open the reader",
	Long:  "Open the terminal reader, optionally loading a chapter right away",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url := ""
		if len(args) == 1 {
			url = args[0]
		}
		cobra.CheckErr(runReader(cmd.Context(), url))
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runReader(ctx context.Context, url string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Logs would corrupt the terminal UI
	if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0755); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(filepath.Join(filepath.Dir(cfg.CacheDB), "yomu.log"), "yomu")
	if err != nil {
		return err
	}
	defer logFile.Close()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return app.NewApp(s.reader, s.host, screens.Options{
		InitialURL: url,
		ExportDir:  cfg.DownloadDir,
		Prefetcher: s.prefetcher,
		Cache:      s.worker,
	}).Run(ctx)
}
