package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
	"github.com/matzehuels/portindex/pkg/overrides"
)

// overridesCommand creates the overrides command group.
func (c *CLI) overridesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Inspect the override tree",
	}

	cmd.AddCommand(c.overridesCheckCommand())

	return cmd
}

// overridesCheckCommand creates the "overrides check" subcommand.
func (c *CLI) overridesCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "check [dir]",
		Short:             "Validate every entry.json and overrides.json file",
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

			problems, err := checkOverrides(dir)
			if err != nil {
				return err
			}
			if problems > 0 {
				return fmt.Errorf("%d problems in %s", problems, dir)
			}
			return nil
		},
	}
}

// checkOverrides loads the tree at dir and reports every file and field
// the pipeline would reject. It returns the number of problems found.
// Targets that are not valid vcpkg port names only produce a warning, since
// they can still match an addition.
func checkOverrides(dir string) (int, error) {
	res, err := overrides.Load(dir)
	if err != nil {
		return 0, err
	}

	problems := 0
	for _, e := range res.Errors {
		printError("%v", e)
		problems++
	}
	for _, add := range res.Additions {
		if len(catalog.Normalize([]catalog.RawPackage{add.Package})) == 0 {
			printWarning("%s: homepage is not on GitHub, the addition will be dropped", add.Source)
		}
	}
	for _, ov := range res.Overrides {
		if err := errors.ValidatePortName(ov.Target); err != nil {
			printWarning("%s: %s, no registry port will match", ov.Source, errors.UserMessage(err))
		}
		scratch := []catalog.Package{{Name: ov.Target}}
		_, fieldErrs := overrides.Apply(scratch, []overrides.Override{ov})
		for _, e := range fieldErrs {
			printError("%v", e)
			problems++
		}
	}

	if problems == 0 {
		printSuccess("%d additions, %d overrides", len(res.Additions), len(res.Overrides))
	}
	printDetail("Directory: %s", dir)
	return problems, nil
}
