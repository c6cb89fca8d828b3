package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/store"
)

// scaffoldCommand creates the scaffold command, which seeds an override tree.
func (c *CLI) scaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [dir]",
		Short: "Write info.json for every GitHub-hosted registry package",
		Long: `Write <dir>/<name>/info.json with the Name and Homepage of every registry
package whose homepage is on GitHub. The directory defaults to the
configured override tree root.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.OverridesDir
			if len(args) == 1 {
				dir = args[0]
			}

			c.Logger.Info("downloading registry", "url", cfg.RegistryURL)
			reg, err := newFetcher(cfg).Fetch(cmd.Context())
			if err != nil {
				return err
			}

			res, err := store.Scaffold(dir, reg.Packages)
			if err != nil {
				return err
			}
			for _, e := range res.Skipped {
				c.Logger.Warn("skipped package", "err", e)
			}

			printSuccess("Scaffolded %d packages", len(res.Written))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	return cmd
}
