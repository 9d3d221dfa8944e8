package handler

import (
	"errors"
	"testing"

	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanCommandHandler_HandleToleratesMissingService(t *testing.T) {
	config := testConfig()
	config.TeamID = ""
	configRepository := new(testutil.MockConfigRepository)
	configRepository.On("LoadConfig", domain.ConfigSources{}).Return(config, nil)
	serviceManager := new(testutil.MockServiceManager)
	serviceManager.On("Stop", "cdps-productpage").Return(errors.New("Unit cdps-productpage.service not loaded."))
	serviceManager.On("Disable", "cdps-productpage").Return(errors.New("Unit file cdps-productpage.service does not exist."))
	serviceManager.On("ResetFailed", "cdps-productpage").Return(nil)
	serviceManager.On("RemoveUnit", "cdps-productpage").Return(nil)
	serviceManager.On("Reload").Return(nil)
	fileSystem := new(testutil.MockFileSystem)
	fileSystem.On("RemoveAll", "/opt/practica_creativa2").Return(nil)
	containerRuntime := new(testutil.MockContainerRuntime)

	sut := CleanCommandHandler{
		configRepository: configRepository,
		cleaner:          core.ProvideDeploymentCleaner(serviceManager, containerRuntime, fileSystem, zap.NewNop()),
	}

	err := sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{})

	require.NoError(t, err)
	serviceManager.AssertExpectations(t)
	fileSystem.AssertExpectations(t)
	containerRuntime.AssertNotCalled(t, "RemoveContainer", mock.Anything)
}

func TestCleanCommandHandler_HandleContainerModeNeedsTeamID(t *testing.T) {
	config := testConfig()
	config.TeamID = ""
	config.Mode = domain.ModeContainer
	configRepository := new(testutil.MockConfigRepository)
	configRepository.On("LoadConfig", domain.ConfigSources{}).Return(config, nil)
	containerRuntime := new(testutil.MockContainerRuntime)
	fileSystem := new(testutil.MockFileSystem)

	sut := CleanCommandHandler{
		configRepository: configRepository,
		cleaner:          core.ProvideDeploymentCleaner(new(testutil.MockServiceManager), containerRuntime, fileSystem, zap.NewNop()),
	}

	err := sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{})

	assert.ErrorContains(t, err, "team id is required in container mode")
	containerRuntime.AssertNotCalled(t, "RemoveContainer", mock.Anything)
	fileSystem.AssertNotCalled(t, "RemoveAll", mock.Anything)
}

func TestCleanCommandHandler_HandleConfigLoadFailure(t *testing.T) {
	configRepository := new(testutil.MockConfigRepository)
	configRepository.On("LoadConfig", domain.ConfigSources{ConfigFile: "missing.yaml"}).
		Return(domain.DeploymentConfig{}, errors.New("open missing.yaml: no such file or directory"))

	sut := CleanCommandHandler{configRepository: configRepository}

	err := sut.Handle(domain.ConfigSources{ConfigFile: "missing.yaml"}, domain.ConfigOverrides{})

	assert.ErrorContains(t, err, "failed to load configuration")
}
