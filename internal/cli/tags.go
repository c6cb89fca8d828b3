package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/config"
	"github.com/matzehuels/portindex/pkg/integrations/github"
	"github.com/matzehuels/portindex/pkg/pipeline"
)

// tagsCommand creates the tags command for listing one repository's tags.
func (c *CLI) tagsCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "tags <owner/repo>",
		Short: "List version tags of a GitHub repository",
		Example: `  portindex tags madler/zlib
  portindex tags fmtlib/fmt --backend git`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.TagBackend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			owner, repo, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}
			url := github.RepoURL(cfg.GitHubURL, owner, repo)
			c.Logger.Debug("listing tags", "url", url, "backend", cfg.TagBackend)

			tags, err := pipeline.NewTagLister(cfg.TagBackend).ListTags(cmd.Context(), url)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Println(tag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.TagBackendGoGit, "tag listing backend: go-git or git")
	_ = cmd.RegisterFlagCompletionFunc("backend", completeValues(tagBackends...))

	return cmd
}
