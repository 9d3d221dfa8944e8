package cmd

import (
	"os"

	"ppdeploy/internal/cli/output"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "ppdeploy",
	Short: "Deploys the productpage monolith with a team identity",
	Long: `ppdeploy checks out the productpage Flask monolith, patches its source and
templates so every page shows the team id and owner, and runs it either as a
systemd service or as a docker container.

Patching is idempotent: running a command twice leaves the files exactly as
the first run did.

Values are layered from defaults, ~/.ppdeploy.yaml (or --config), an env file
(--env-file) and finally command line flags.

Common workflows:
  sudo ppdeploy deploy --team-id 27 --port 9095      Deploy as a systemd service
  ppdeploy deploy --team-id 27 --port 9095 --mode container
  ppdeploy patch --dir ./productpage --team-id 27 --dry-run
  ppdeploy health --port 9095`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every external command")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default ~/.ppdeploy.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file with TEAM_ID, APP_OWNER, HOST_PORT or DEPLOY_MODE")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}
