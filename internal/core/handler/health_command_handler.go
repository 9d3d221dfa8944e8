package handler

import (
	"fmt"

	"ppdeploy/internal/cli/output"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"
)

type HealthCommandHandler struct {
	configRepository core.ConfigRepository
	healthProber     ports.HealthProber
	serviceManager   ports.ServiceManager
}

func ProvideHealthCommandHandler(
	configRepository core.ConfigRepository,
	healthProber ports.HealthProber,
	serviceManager ports.ServiceManager,
) HealthCommandHandler {
	return HealthCommandHandler{
		configRepository: configRepository,
		healthProber:     healthProber,
		serviceManager:   serviceManager,
	}
}

func (h *HealthCommandHandler) Handle(sources domain.ConfigSources, overrides domain.ConfigOverrides) error {
	config, err := loadConfig(h.configRepository, sources, overrides, domain.DeploymentConfig.ValidateTarget)
	if err != nil {
		return err
	}

	if config.Mode == domain.ModeSystemd {
		output.PrintHeader("Service status")
		output.PrintBlock(h.serviceManager.Status(config.ServiceName))
	}

	report, err := h.healthProber.Probe(config.HealthCheckURL())
	if err != nil {
		return err
	}

	output.PrintSuccess(fmt.Sprintf("%s answered %d after %d %s", report.URL, report.StatusCode, report.Attempts,
		output.Plural(report.Attempts, "attempt", "attempts")))
	if report.Title != "" {
		output.PrintStep(fmt.Sprintf("Page title: %s", report.Title))
	}
	return nil
}
