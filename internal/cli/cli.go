// Package cli implements the portindex command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/buildinfo"
	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/config"
	"github.com/matzehuels/portindex/pkg/integrations"
	"github.com/matzehuels/portindex/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "portindex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	version, _, _ := buildinfo.Info()
	root := &cobra.Command{
		Use:          appName,
		Short:        "Portindex builds a searchable catalog of vcpkg ports",
		Long:         `Portindex downloads the vcpkg registry, keeps GitHub-hosted ports, applies local overrides, enriches them with repository statistics and version tags, and writes the catalog as JSON and SQLite.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := newLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.scaffoldCommand())
	root.AddCommand(c.overridesCommand())
	root.AddCommand(c.tagsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Collaborators
// =============================================================================

// loadConfig reads the config file and environment. Flag overrides are
// applied by each command afterwards.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// openCache opens the configured response cache.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	return cache.Open(ctx, cfg.Cache.Backend, cfg.Cache.Dir, cfg.Cache.RedisAddr)
}

// newFetcher returns a registry fetcher for cfg.
func newFetcher(cfg *config.Config) *catalog.Fetcher {
	client := integrations.NewClient(nil, "", 0, map[string]string{"User-Agent": cfg.UserAgent})
	return catalog.NewFetcher(client, cfg.RegistryURL)
}
