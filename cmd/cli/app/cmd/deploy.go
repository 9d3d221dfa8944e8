package cmd

import (
	"ppdeploy/cmd/cli/app"
	"ppdeploy/internal/logging"

	"github.com/spf13/cobra"
)

var deployClean bool

func init() {
	rootCmd.AddCommand(deployCmd)
	addTeamIDFlag(deployCmd)
	addOwnerFlag(deployCmd)
	addModeFlag(deployCmd)
	addValidationFlags(deployCmd)
	deployCmd.Flags().Int("port", 0, "Host port the application answers on")
	deployCmd.Flags().BoolVar(&deployClean, "clean", false, "Remove a previous deployment first")
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Checks out, patches and starts the productpage application",
	Long: `Checks out the repository, patches the monolith and its templates, validates
the result and starts it. Nothing is started when validation fails.

In systemd mode the command installs system packages, creates a virtualenv
and registers a service unit, so it has to run as root. In container mode an
image is built from the patched checkout and run detached.`,
	Example: `  # Deploy team 27 on port 9095 as a systemd service
  sudo ppdeploy deploy --team-id 27 --port 9095 --owner "Moreno"

  # Redeploy from scratch
  sudo ppdeploy deploy --team-id 27 --port 9095 --clean

  # Deploy in a container instead
  ppdeploy deploy --team-id 27 --port 9095 --mode container`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := configOverrides(cmd)
		if err != nil {
			return err
		}

		handler, cleanup, err := app.InjectDeployCommandHandler(logging.Verbose(verbose))
		if err != nil {
			return err
		}
		defer cleanup()

		return handler.Handle(configSources(), overrides, deployClean)
	},
}
