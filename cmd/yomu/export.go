package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/yomu/pkg/data"
)

var exportCmd = &cobra.Command{
	Use:   "export [chapter-url]",
	Short: "Export a chapter to EPUB",
	Long:  "Load a chapter, fetch its pages through the offline cache and write them to an EPUB",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		quality, _ := cmd.Flags().GetString("quality")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.DownloadDir
		}
		q := data.Quality(quality)
		if quality == "" {
			q = cfg.Quality
		}
		if !q.Valid() {
			cobra.CheckErr(fmt.Errorf("quality must be low, medium or high: %s", quality))
		}

		ctx := cmd.Context()
		s, err := openSession(ctx, cfg)
		cobra.CheckErr(err)
		defer s.Close()

		fmt.Printf("📥 Loading %s\n", args[0])
		chapter, err := s.reader.LoadChapter(ctx, args[0])
		cobra.CheckErr(err)

		settings := s.reader.Store().State().Preferences.ModelSettings
		settings.Quality = q
		s.reader.Store().UpdatePreferences(data.PreferencesPatch{ModelSettings: &settings})

		fmt.Printf("📖 %s: %d pages at %s quality\n", chapter.Title, len(chapter.Pages), q)
		path, err := s.reader.Export(ctx, output)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}
		fmt.Printf("✅ Saved %s\n", path)
	},
}

func init() {
	exportCmd.Flags().StringP("quality", "q", "", "Image quality: low, medium or high (default from YOMU_QUALITY)")
	exportCmd.Flags().StringP("output", "o", "", "Output directory (default from YOMU_DOWNLOAD_DIR)")
	rootCmd.AddCommand(exportCmd)
}
