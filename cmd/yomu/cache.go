package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kerbaras/yomu/pkg/cache"
	"github.com/kerbaras/yomu/pkg/data"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Install and activate the current cache version",
	Long:  "Fetch the application shell into the current cache version and delete older versions",
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := data.NewCacheRepository(cfg.CacheDB)
		cobra.CheckErr(err)
		defer repo.Close()

		worker, err := cache.NewWorker(repo, http.DefaultTransport, cfg.CacheVersion, cfg.Origin)
		cobra.CheckErr(err)

		fmt.Printf("🔥 Warming %s from %s\n", worker.Name(), cfg.Origin)
		// Install directly: warming must reach the origin, not resume a stale cache.
		if err := worker.Install(cmd.Context()); err != nil {
			cobra.CheckErr(fmt.Errorf("cache warm failed: %w", err))
		}
		if err := worker.Activate(cmd.Context()); err != nil {
			cobra.CheckErr(fmt.Errorf("cache warm failed: %w", err))
		}
		fmt.Printf("✅ %s is %s\n", worker.Name(), worker.Phase())
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cache versions and their entries",
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := data.NewCacheRepository(cfg.CacheDB)
		cobra.CheckErr(err)
		defer repo.Close()

		ctx := cmd.Context()
		names, err := repo.Keys(ctx)
		cobra.CheckErr(err)

		if len(names) == 0 {
			fmt.Println("📦 No caches yet. Use 'yomu cache warm' to create one.")
			return
		}

		columns := []table.Column{
			{Title: "Cache", Width: 24},
			{Title: "Current", Width: 8},
			{Title: "Entries", Width: 8},
			{Title: "Sample", Width: 50},
		}

		rows := []table.Row{}
		current := cache.CacheName(cfg.CacheVersion)
		for _, name := range names {
			keys, err := entries(ctx, repo, name)
			cobra.CheckErr(err)

			marker := ""
			if name == current {
				marker = "✓"
			}
			sample := ""
			if len(keys) > 0 {
				sample = truncateString(keys[0], 48)
			}
			rows = append(rows, table.Row{name, marker, fmt.Sprintf("%d", len(keys)), sample})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📦 Offline caches (%d)\n\n", len(names))
		fmt.Println(t.View())
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cache versions",
	Long:  "Delete every cache version except the current one, or all of them with --all",
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")

		repo, err := data.NewCacheRepository(cfg.CacheDB)
		cobra.CheckErr(err)
		defer repo.Close()

		ctx := cmd.Context()
		names, err := repo.Keys(ctx)
		cobra.CheckErr(err)

		current := cache.CacheName(cfg.CacheVersion)
		deleted := 0
		for _, name := range names {
			if name == current && !all {
				continue
			}
			ok, err := repo.Delete(ctx, name)
			cobra.CheckErr(err)
			if ok {
				fmt.Printf("🗑️  Deleted %s\n", name)
				deleted++
			}
		}
		if deleted == 0 {
			fmt.Println("✨ Nothing to purge.")
		}
	},
}

func init() {
	cachePurgeCmd.Flags().Bool("all", false, "Also delete the current cache version")
	cacheCmd.AddCommand(cacheWarmCmd, cacheListCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func entries(ctx context.Context, storage cache.Storage, name string) ([]string, error) {
	c, err := storage.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.Keys(ctx)
}

func truncateString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
