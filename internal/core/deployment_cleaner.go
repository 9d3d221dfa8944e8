package core

import (
	"fmt"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"

	"go.uber.org/zap"
)

// DeploymentCleaner removes everything a previous deployment left behind.
// Every step is attempted; failures are collected and returned, never fatal.
type DeploymentCleaner struct {
	serviceManager   ports.ServiceManager
	containerRuntime ports.ContainerRuntime
	fileSystem       ports.FileSystem
	logger           *zap.Logger
}

func ProvideDeploymentCleaner(
	serviceManager ports.ServiceManager,
	containerRuntime ports.ContainerRuntime,
	fileSystem ports.FileSystem,
	logger *zap.Logger,
) *DeploymentCleaner {
	return &DeploymentCleaner{
		serviceManager:   serviceManager,
		containerRuntime: containerRuntime,
		fileSystem:       fileSystem,
		logger:           logger,
	}
}

func (c *DeploymentCleaner) Clean(config domain.DeploymentConfig) []error {
	var failures []error
	attempt := func(step string, fn func() error) {
		if err := fn(); err != nil {
			c.logger.Debug("Clean step failed", zap.String("step", step), zap.Error(err))
			failures = append(failures, fmt.Errorf("%s: %w", step, err))
		}
	}

	switch config.Mode {
	case domain.ModeSystemd:
		name := config.ServiceName
		attempt("stop service", func() error { return c.serviceManager.Stop(name) })
		attempt("disable service", func() error { return c.serviceManager.Disable(name) })
		attempt("reset failed state", func() error { return c.serviceManager.ResetFailed(name) })
	case domain.ModeContainer:
		attempt("remove container", func() error { return c.containerRuntime.RemoveContainer(config.ContainerName()) })
	}

	attempt("remove install dir", func() error { return c.fileSystem.RemoveAll(config.InstallDir) })

	if config.Mode == domain.ModeSystemd {
		attempt("remove unit file", func() error { return c.serviceManager.RemoveUnit(config.ServiceName) })
		attempt("reload systemd", c.serviceManager.Reload)
	}

	return failures
}
