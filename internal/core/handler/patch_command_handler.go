package handler

import (
	"fmt"
	"path/filepath"

	"ppdeploy/internal/cli/output"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
)

// PatchCommandHandler runs the patch sets against an existing checkout
// without touching services or containers.
type PatchCommandHandler struct {
	configRepository core.ConfigRepository
	patcher          *core.ApplicationPatcher
	validator        *core.Validator
}

func ProvidePatchCommandHandler(
	configRepository core.ConfigRepository,
	patcher *core.ApplicationPatcher,
	validator *core.Validator,
) PatchCommandHandler {
	return PatchCommandHandler{
		configRepository: configRepository,
		patcher:          patcher,
		validator:        validator,
	}
}

// Handle patches the application in appDir, the directory holding the entry
// file. With dryRun the unified diff is printed and nothing is written.
func (h *PatchCommandHandler) Handle(appDir string, sources domain.ConfigSources, overrides domain.ConfigOverrides, dryRun bool) error {
	config, err := loadConfig(h.configRepository, sources, overrides, domain.DeploymentConfig.ValidateLabels)
	if err != nil {
		return err
	}

	absoluteDir, err := filepath.Abs(appDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", appDir, err)
	}
	config.InstallDir = absoluteDir
	config.AppRelativePath = ""

	if dryRun {
		diff, results, err := h.patcher.Diff(config)
		if err != nil {
			return err
		}
		if diff == "" {
			output.PrintSuccess("Application is already patched")
			return nil
		}
		fmt.Print(diff)
		printPatchResults(results, config.AppDir())
		return nil
	}

	results, err := h.patcher.Patch(config)
	printPatchResults(results, config.AppDir())
	if err != nil {
		return err
	}

	if err := h.validator.Validate(config, hostPython); err != nil {
		return err
	}

	output.PrintSuccess(fmt.Sprintf("Patched %s for team %s", config.AppDir(), config.TeamID))
	return nil
}
