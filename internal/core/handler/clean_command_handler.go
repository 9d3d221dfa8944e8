package handler

import (
	"fmt"

	"ppdeploy/internal/cli/output"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
)

type CleanCommandHandler struct {
	configRepository core.ConfigRepository
	cleaner          *core.DeploymentCleaner
}

func ProvideCleanCommandHandler(configRepository core.ConfigRepository, cleaner *core.DeploymentCleaner) CleanCommandHandler {
	return CleanCommandHandler{
		configRepository: configRepository,
		cleaner:          cleaner,
	}
}

func (h *CleanCommandHandler) Handle(sources domain.ConfigSources, overrides domain.ConfigOverrides) error {
	config, err := loadConfig(h.configRepository, sources, overrides, domain.DeploymentConfig.ValidateTarget)
	if err != nil {
		return err
	}

	failures := h.cleaner.Clean(config)
	for _, failure := range failures {
		output.PrintWarning(failure.Error())
	}

	if len(failures) > 0 {
		output.PrintInfo(fmt.Sprintf("Cleaned up %s with %d %s", config.InstallDir, len(failures), output.Plural(len(failures), "warning", "warnings")))
		return nil
	}
	output.PrintSuccess(fmt.Sprintf("Cleaned up %s", config.InstallDir))
	return nil
}
