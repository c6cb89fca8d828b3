package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GitHub API response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached API responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == cache.BackendNone || cfg.Cache.Backend == "" {
				// The file cache may still hold entries from an earlier run.
				cfg.Cache.Backend = cache.BackendFile
			}

			respCache, err := openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer respCache.Close()

			clearer, ok := respCache.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %s holds nothing to clear", cfg.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return err
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Backend: %s", describeCache(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

func describeCache(cfg *config.Config) string {
	if cfg.Cache.Backend == cache.BackendRedis {
		return "redis " + cfg.Cache.RedisAddr
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cfg.Cache.Backend
	}
	return "file " + dir
}
