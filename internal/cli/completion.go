package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/cache"
	"github.com/matzehuels/portindex/pkg/config"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for portindex.

Besides subcommands and flags, the scripts complete the values of
--cache, --tag-backend and --backend, and directories for the
scaffold and "overrides check" arguments.

Bash:
  $ source <(portindex completion bash)

Zsh:
  $ portindex completion zsh > "${fpath[1]}/_portindex"

Fish:
  $ portindex completion fish > ~/.config/fish/completions/portindex.fish

PowerShell:
  PS> portindex completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeValues completes a flag from a fixed set of values.
func completeValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeDir completes a single directory argument.
func completeDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

var (
	tagBackends   = []string{config.TagBackendGoGit, config.TagBackendExec}
	cacheBackends = []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis}
)
