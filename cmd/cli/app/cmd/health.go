package cmd

import (
	"ppdeploy/cmd/cli/app"
	"ppdeploy/internal/logging"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	addModeFlag(healthCmd)
	healthCmd.Flags().Int("port", 0, "Host port the application answers on")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Checks that the deployed application answers",
	Long: `Polls the product page until it answers 200 and prints its title. In
systemd mode the service status is printed first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := configOverrides(cmd)
		if err != nil {
			return err
		}

		handler, cleanup, err := app.InjectHealthCommandHandler(logging.Verbose(verbose))
		if err != nil {
			return err
		}
		defer cleanup()

		return handler.Handle(configSources(), overrides)
	},
}
