package cmd

import (
	"ppdeploy/cmd/cli/app"
	"ppdeploy/internal/logging"

	"github.com/spf13/cobra"
)

var (
	patchDir    string
	patchDryRun bool
)

func init() {
	rootCmd.AddCommand(patchCmd)
	addTeamIDFlag(patchCmd)
	addValidationFlags(patchCmd)
	patchCmd.Flags().StringVar(&patchDir, "dir", "", "Directory holding the entry file and templates/")
	patchCmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "Print a unified diff instead of writing")
	_ = patchCmd.MarkFlagRequired("dir")
}

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Patches an existing checkout without deploying it",
	Long: `Applies the source and template patches to an application directory that is
already checked out. Services and containers are not touched. The patched
entry file is compiled with python3 unless --skip-syntax-check is given.`,
	Example: `  # Show what would change
  ppdeploy patch --dir bookinfo/src/productpage --team-id 27 --dry-run

  # Patch in place and fail if no page receives the team id
  ppdeploy patch --dir bookinfo/src/productpage --team-id 27 --strict`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := configOverrides(cmd)
		if err != nil {
			return err
		}

		handler, cleanup, err := app.InjectPatchCommandHandler(logging.Verbose(verbose))
		if err != nil {
			return err
		}
		defer cleanup()

		return handler.Handle(patchDir, configSources(), overrides, patchDryRun)
	},
}
