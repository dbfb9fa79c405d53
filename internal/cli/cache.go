package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/ailint/internal/cache"
	"github.com/dshills/ailint/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lint result cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache entry count and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := openCache()
		if err := c.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		entries, size := c.Status()
		fmt.Fprintf(os.Stdout, "Cache: %s\n", c.Path())
		fmt.Fprintf(os.Stdout, "Entries: %d\n", entries)
		fmt.Fprintf(os.Stdout, "Size: %d bytes\n", size)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached lint results",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := openCache()
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Cache cleared.")
		return nil
	},
}

// openCache builds a cache from flags/config without requiring a valid
// rules file, so cache management works even with a broken config.
func openCache() *cache.Cache {
	dir := flagCacheDir
	if dir == "" {
		if cfg, err := config.NewLoader().Load(flagConfig); err == nil {
			dir = cfg.CacheDir
		}
	}
	return cache.New(true, dir)
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "Cache directory (default: .ai-lint)")
}
