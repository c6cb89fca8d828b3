package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/config"
	"github.com/matzehuels/portindex/pkg/pipeline"
	"github.com/matzehuels/portindex/pkg/store"
)

// buildOptions holds flags for the build command.
type buildOptions struct {
	pipeline.Options

	output         string
	overrides      string
	database       string
	cacheBackend   string
	maxConnections int
	tagWorkers     int
	tagBackend     string
}

// buildCommand creates the build command for running the full pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the catalog from the vcpkg registry",
		Long: `Build the catalog from the vcpkg registry.

The registry snapshot is downloaded, reduced to GitHub-hosted ports, merged
with the override tree, enriched with repository statistics and version
tags, and written to the output directory as JSON and SQLite.`,
		Example: `  # Full build with defaults
  portindex build

  # Offline-friendly build without GitHub enrichment
  portindex build --skip-stats --skip-tags

  # Use a file cache and a custom output directory
  portindex build --cache file -o site/data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return c.runBuild(cmd.Context(), cfg, opts.Options)
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the API response cache")
	cmd.Flags().BoolVar(&opts.SkipStats, "skip-stats", false, "skip repository statistics")
	cmd.Flags().BoolVar(&opts.SkipTags, "skip-tags", false, "skip version tag listing")
	cmd.Flags().BoolVar(&opts.NoPersist, "dry-run", false, "build without writing any artifact")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config: dist)")
	cmd.Flags().StringVar(&opts.overrides, "overrides", "", "override tree root (default from config: index)")
	cmd.Flags().StringVar(&opts.database, "database", "", "SQLite file (default <output>/packages.db)")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", "", "response cache: none, file, redis")
	cmd.Flags().IntVar(&opts.maxConnections, "max-connections", 0, "concurrent repository stats requests")
	cmd.Flags().IntVar(&opts.tagWorkers, "tag-workers", 0, "tag listing workers (0 = number of CPUs)")
	cmd.Flags().StringVar(&opts.tagBackend, "tag-backend", "", "tag listing backend: go-git or git")
	_ = cmd.RegisterFlagCompletionFunc("cache", completeValues(cacheBackends...))
	_ = cmd.RegisterFlagCompletionFunc("tag-backend", completeValues(tagBackends...))

	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (o *buildOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.OutputDir = o.output
	}
	if f.Changed("overrides") {
		cfg.OverridesDir = o.overrides
	}
	if f.Changed("database") {
		cfg.Database = o.database
	}
	if f.Changed("cache") {
		cfg.Cache.Backend = o.cacheBackend
	}
	if f.Changed("max-connections") {
		cfg.MaxConnections = o.maxConnections
	}
	if f.Changed("tag-workers") {
		cfg.TagWorkers = o.tagWorkers
	}
	if f.Changed("tag-backend") {
		cfg.TagBackend = o.tagBackend
	}
}

func (c *CLI) runBuild(ctx context.Context, cfg *config.Config, opts pipeline.Options) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Token == "" && !opts.SkipStats {
		c.Logger.Warn("no GitHub token set, API requests are rate limited", "env", config.EnvToken)
	}

	respCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer respCache.Close()

	runner := pipeline.NewRunner(cfg, respCache, c.Logger)

	if cfg.Mongo.URI != "" && !opts.NoPersist {
		mirror, err := store.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mirror.Close(closeCtx); err != nil {
				c.Logger.Warn("close mongo", "err", err)
			}
		}()
		runner.Mirror = mirror
	}

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	printBuildSummary(res)
	if !opts.NoPersist {
		printNewline()
		printNextStep("Browse the catalog", appName+" serve")
	}
	return nil
}
