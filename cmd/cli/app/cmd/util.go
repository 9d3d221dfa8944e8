package cmd

import (
	"fmt"

	"ppdeploy/internal/core/domain"

	"github.com/spf13/cobra"
)

func configSources() domain.ConfigSources {
	return domain.ConfigSources{
		ConfigFile: configFile,
		EnvFile:    envFile,
	}
}

func addTeamIDFlag(cmd *cobra.Command) {
	cmd.Flags().String("team-id", "", "Team identifier shown on every page")
}

func addOwnerFlag(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Owner label passed to the application as APP_OWNER")
}

func addModeFlag(cmd *cobra.Command) {
	cmd.Flags().String("mode", string(domain.ModeSystemd), "Deployment mode: systemd or container")
}

func addValidationFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Fail when no page receives the team id")
	cmd.Flags().Bool("skip-syntax-check", false, "Do not compile the patched entry file")
}

// configOverrides collects the flags the user set explicitly. Flags left at
// their default do not override the config file or env file.
func configOverrides(cmd *cobra.Command) (domain.ConfigOverrides, error) {
	var overrides domain.ConfigOverrides
	flags := cmd.Flags()

	if flags.Changed("team-id") {
		value, err := flags.GetString("team-id")
		if err != nil {
			return overrides, err
		}
		overrides.TeamID = &value
	}
	if flags.Changed("owner") {
		value, err := flags.GetString("owner")
		if err != nil {
			return overrides, err
		}
		overrides.Owner = &value
	}
	if flags.Changed("port") {
		value, err := flags.GetInt("port")
		if err != nil {
			return overrides, err
		}
		overrides.HostPort = &value
	}
	if flags.Changed("mode") {
		value, err := flags.GetString("mode")
		if err != nil {
			return overrides, err
		}
		mode := domain.DeploymentMode(value)
		if mode != domain.ModeSystemd && mode != domain.ModeContainer {
			return overrides, fmt.Errorf("invalid --mode '%s', expected '%s' or '%s'", value, domain.ModeSystemd, domain.ModeContainer)
		}
		overrides.Mode = &mode
	}
	if flags.Changed("strict") {
		value, err := flags.GetBool("strict")
		if err != nil {
			return overrides, err
		}
		overrides.Strict = &value
	}
	if flags.Changed("skip-syntax-check") {
		value, err := flags.GetBool("skip-syntax-check")
		if err != nil {
			return overrides, err
		}
		overrides.SkipSyntaxCheck = &value
	}

	return overrides, nil
}
