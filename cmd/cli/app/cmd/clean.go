package cmd

import (
	"ppdeploy/cmd/cli/app"
	"ppdeploy/internal/logging"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
	addModeFlag(cleanCmd)
	cleanCmd.Flags().String("team-id", "", "Team identifier, names the container in container mode")
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes a previous deployment",
	Long: `Stops and disables the service (or removes the container), deletes the
install directory and the unit file. Every step is attempted even when an
earlier one fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := configOverrides(cmd)
		if err != nil {
			return err
		}

		handler, cleanup, err := app.InjectCleanCommandHandler(logging.Verbose(verbose))
		if err != nil {
			return err
		}
		defer cleanup()

		return handler.Handle(configSources(), overrides)
	},
}
