package handler

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"ppdeploy/internal/adapters/templater"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/core/patch"
	"ppdeploy/internal/ports"
	"ppdeploy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type deployFixture struct {
	config            domain.DeploymentConfig
	fileSystem        *testutil.TestFileSystem
	configRepository  *testutil.MockConfigRepository
	commandRunner     *testutil.MockCommandRunner
	scm               *testutil.MockScm
	pythonEnvironment *testutil.MockPythonEnvironment
	syntaxChecker     *testutil.MockSyntaxChecker
	serviceManager    *testutil.MockServiceManager
	containerRuntime  *testutil.MockContainerRuntime
	healthProber      *testutil.MockHealthProber
	sut               DeployCommandHandler
}

func newDeployFixture(t *testing.T, config domain.DeploymentConfig) *deployFixture {
	f := &deployFixture{
		config:            config,
		fileSystem:        testutil.NewTestFileSystem(t),
		configRepository:  new(testutil.MockConfigRepository),
		commandRunner:     new(testutil.MockCommandRunner),
		scm:               new(testutil.MockScm),
		pythonEnvironment: new(testutil.MockPythonEnvironment),
		syntaxChecker:     new(testutil.MockSyntaxChecker),
		serviceManager:    new(testutil.MockServiceManager),
		containerRuntime:  new(testutil.MockContainerRuntime),
		healthProber:      new(testutil.MockHealthProber),
	}
	seedApplication(t, f.fileSystem, config)
	f.configRepository.On("LoadConfig", domain.ConfigSources{}).Return(config, nil)

	logger := zap.NewNop()
	f.sut = ProvideDeployCommandHandler(
		f.configRepository,
		core.ProvideEnvironmentEnsurer(f.pythonEnvironment),
		core.ProvideDeploymentCleaner(f.serviceManager, f.containerRuntime, f.fileSystem, logger),
		core.ProvideApplicationPatcher(patch.ProvideEngine(f.fileSystem, logger), logger),
		core.ProvideValidator(f.fileSystem, f.syntaxChecker, logger),
		f.commandRunner,
		f.fileSystem,
		f.scm,
		f.pythonEnvironment,
		f.serviceManager,
		f.containerRuntime,
		templater.ProvideTextTemplater(),
		f.healthProber,
		logger,
	)
	f.sut.euid = func() int { return 0 }
	return f
}

func (f *deployFixture) expectSystemdProvisioning() {
	config := f.config
	f.pythonEnvironment.On("Version", "/usr/bin/python3.9").Return("3.9", nil)
	f.commandRunner.On("Run", "apt-get", []string{"update", "-q"}).Return([]byte{}, nil)
	f.commandRunner.On("Run", "apt-get", append([]string{"install", "-y", "-q"}, config.SystemPackages...)).Return([]byte{}, nil)
	f.scm.On("Clone", config.RepositoryURL, "/opt/practica_creativa2").Return(nil)
	f.scm.On("Revision", "/opt/practica_creativa2").Return("3f2a9c1", nil)
	f.pythonEnvironment.On("CreateVirtualenv", "/usr/bin/python3.9", "/opt/practica_creativa2/.venv").Return(nil)
	f.pythonEnvironment.On(
		"InstallRequirements",
		"/opt/practica_creativa2/.venv",
		"/opt/practica_creativa2/bookinfo/src/productpage/requirements.txt",
	).Return(nil)
	f.pythonEnvironment.On("Version", "/opt/practica_creativa2/.venv/bin/python").Return("3.9", nil)
}

func (f *deployFixture) expectSystemdService() {
	f.commandRunner.On("Run", "chown", []string{"-R", "ubuntu:ubuntu", "/opt/practica_creativa2"}).Return([]byte{}, nil)
	f.serviceManager.On("WriteUnit", ports.ServiceUnit{
		Name:             "cdps-productpage",
		Description:      "CDPS BookInfo Productpage (monolith)",
		WorkingDirectory: "/opt/practica_creativa2/bookinfo/src/productpage",
		User:             "ubuntu",
		Environment:      map[string]string{"TEAM_ID": "27", "APP_OWNER": "Moreno"},
		ExecStart:        "/opt/practica_creativa2/.venv/bin/python /opt/practica_creativa2/bookinfo/src/productpage/productpage_monolith.py 9095",
	}).Return(nil)
	f.serviceManager.On("Reload").Return(nil)
	f.serviceManager.On("EnableAndStart", "cdps-productpage").Return(nil)
	f.serviceManager.On("Status", "cdps-productpage").Return("Active: active (running)")
}

func healthyReport() ports.HealthReport {
	return ports.HealthReport{
		URL:        "http://127.0.0.1:9095/productpage",
		Healthy:    true,
		Attempts:   2,
		StatusCode: 200,
		Title:      "Product Page - Moreno - Team 27",
	}
}

func TestDeployCommandHandler_HandleDeploysSystemdService(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.expectSystemdProvisioning()
	f.syntaxChecker.On("Check", "/opt/practica_creativa2/.venv/bin/python", f.config.EntryPath()).Return(nil)
	f.expectSystemdService()
	f.healthProber.On("Probe", "http://127.0.0.1:9095/productpage").Return(healthyReport(), nil)

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.NoError(t, err)
	source := f.fileSystem.Content(t, f.config.EntryPath())
	assert.Equal(t, 1, strings.Count(source, patch.TeamIDConstantMarker))
	assert.Contains(t, source, "host='0.0.0.0'")
	assert.Equal(t, 2, patch.ThreadedRenderCalls(source, f.config.Templates))
	for _, path := range f.config.TemplatePaths() {
		assert.Contains(t, f.fileSystem.Content(t, path), patch.TitleBlock)
	}
	f.commandRunner.AssertExpectations(t)
	f.scm.AssertExpectations(t)
	f.pythonEnvironment.AssertExpectations(t)
	f.serviceManager.AssertExpectations(t)
	f.healthProber.AssertExpectations(t)
	f.containerRuntime.AssertNotCalled(t, "RunContainer", mock.Anything)
	f.serviceManager.AssertNotCalled(t, "Stop", mock.Anything)
}

func TestDeployCommandHandler_HandleValidationFailureDoesNotStartService(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.expectSystemdProvisioning()
	f.syntaxChecker.On("Check", "/opt/practica_creativa2/.venv/bin/python", f.config.EntryPath()).
		Return(errors.New("SyntaxError: invalid syntax"))

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Contains(t, err.Error(), "validation failed")
	f.serviceManager.AssertNotCalled(t, "WriteUnit", mock.Anything)
	f.serviceManager.AssertNotCalled(t, "EnableAndStart", mock.Anything)
	f.commandRunner.AssertNotCalled(t, "Run", "chown", mock.Anything)
	f.healthProber.AssertNotCalled(t, "Probe", mock.Anything)
}

func TestDeployCommandHandler_HandleDeploysContainer(t *testing.T) {
	config := testConfig()
	config.Mode = domain.ModeContainer
	f := newDeployFixture(t, config)
	f.scm.On("Clone", config.RepositoryURL, "/opt/practica_creativa2").Return(nil)
	f.scm.On("Revision", "/opt/practica_creativa2").Return("3f2a9c1", nil)
	f.syntaxChecker.On("Check", "python3", config.EntryPath()).Return(nil)
	f.containerRuntime.On("BuildImage", "cdps-productpage:g27", config.AppDir()).Return(nil)
	f.containerRuntime.On("RemoveContainer", "productpage_cdps_27").Return(errors.New("daemon busy"))
	f.containerRuntime.On("RunContainer", ports.ContainerSpec{
		Name:          "productpage_cdps_27",
		Image:         "cdps-productpage:g27",
		HostPort:      9095,
		ContainerPort: 8080,
		Environment:   map[string]string{"TEAM_ID": "27", "APP_OWNER": "Moreno"},
	}).Return(nil)
	f.healthProber.On("Probe", "http://127.0.0.1:9095/productpage").Return(healthyReport(), nil)

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.NoError(t, err)
	assert.Equal(t, `FROM python:3.9-slim
WORKDIR /opt/productpage
COPY . /opt/productpage
RUN pip install --no-cache-dir -r requirements.txt
EXPOSE 8080
CMD ["python3", "productpage_monolith.py", "8080"]
`, f.fileSystem.Content(t, filepath.Join(config.AppDir(), "Dockerfile")))
	f.containerRuntime.AssertExpectations(t)
	f.pythonEnvironment.AssertNotCalled(t, "Version", mock.Anything)
	f.commandRunner.AssertNotCalled(t, "Run", "apt-get", mock.Anything)
	f.serviceManager.AssertNotCalled(t, "Status", mock.Anything)
}

func TestDeployCommandHandler_HandleContainerValidationFailureDoesNotRunContainer(t *testing.T) {
	config := testConfig()
	config.Mode = domain.ModeContainer
	config.Strict = true
	f := newDeployFixture(t, config)
	f.fileSystem.Seed(t, config.EntryPath(), "import sys\nprint(sys.argv)\n")
	f.scm.On("Clone", config.RepositoryURL, "/opt/practica_creativa2").Return(nil)
	f.scm.On("Revision", "/opt/practica_creativa2").Return("", errors.New("not a git repository"))

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.ErrorIs(t, err, domain.ErrValidationFailed)
	f.syntaxChecker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	f.containerRuntime.AssertNotCalled(t, "BuildImage", mock.Anything, mock.Anything)
	f.containerRuntime.AssertNotCalled(t, "RunContainer", mock.Anything)
	f.healthProber.AssertNotCalled(t, "Probe", mock.Anything)
}

func TestDeployCommandHandler_HandleInterpreterMismatchStopsBeforeAnyChange(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.pythonEnvironment.On("Version", "/usr/bin/python3.9").Return("3.12", nil)

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, true)

	require.ErrorIs(t, err, domain.ErrEnvironmentMismatch)
	assert.Contains(t, err.Error(), "preflight failed")
	f.serviceManager.AssertNotCalled(t, "Stop", mock.Anything)
	f.commandRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	f.scm.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything)
	assert.Equal(t, monolithSource, f.fileSystem.Content(t, f.config.EntryPath()))
}

func TestDeployCommandHandler_HandleSystemdModeRequiresRoot(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.sut.euid = func() int { return 1000 }

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.ErrorIs(t, err, domain.ErrEnvironmentMismatch)
	assert.Contains(t, err.Error(), "rerun as root")
	f.pythonEnvironment.AssertNotCalled(t, "Version", mock.Anything)
	f.scm.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything)
}

func TestDeployCommandHandler_HandleUnhealthyApplicationIsNotFatal(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.expectSystemdProvisioning()
	f.syntaxChecker.On("Check", "/opt/practica_creativa2/.venv/bin/python", f.config.EntryPath()).Return(nil)
	f.expectSystemdService()
	f.healthProber.On("Probe", "http://127.0.0.1:9095/productpage").
		Return(ports.HealthReport{URL: "http://127.0.0.1:9095/productpage", Attempts: 20}, errors.New("connection refused"))

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.NoError(t, err)
	f.serviceManager.AssertCalled(t, "EnableAndStart", "cdps-productpage")
	f.serviceManager.AssertCalled(t, "Status", "cdps-productpage")
}

func TestDeployCommandHandler_HandleAmbiguousTemplateStopsDeployment(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	f.fileSystem.Seed(t, filepath.Join(f.config.TemplatesDir(), "index.html"), "<title>Simple Bookstore App</title>")
	f.expectSystemdProvisioning()

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, false)

	require.ErrorIs(t, err, domain.ErrAmbiguousTarget)
	assert.Contains(t, err.Error(), "templates failed")
	assert.Equal(t, "<title>Simple Bookstore App</title>", f.fileSystem.Content(t, filepath.Join(f.config.TemplatesDir(), "index.html")))
	f.syntaxChecker.AssertNotCalled(t, "Check", mock.Anything, mock.Anything)
	f.serviceManager.AssertNotCalled(t, "WriteUnit", mock.Anything)
}

func TestDeployCommandHandler_HandleCleanRemovesPreviousContainer(t *testing.T) {
	config := testConfig()
	config.Mode = domain.ModeContainer
	config.SkipSyntaxCheck = true
	f := newDeployFixture(t, config)
	f.scm.On("Clone", config.RepositoryURL, "/opt/practica_creativa2").
		Run(func(mock.Arguments) { seedApplication(t, f.fileSystem, config) }).
		Return(nil)
	f.scm.On("Revision", "/opt/practica_creativa2").Return("3f2a9c1", nil)
	f.containerRuntime.On("RemoveContainer", "productpage_cdps_27").Return(nil)
	f.containerRuntime.On("BuildImage", "cdps-productpage:g27", config.AppDir()).Return(nil)
	f.containerRuntime.On("RunContainer", mock.AnythingOfType("ports.ContainerSpec")).Return(nil)
	f.healthProber.On("Probe", "http://127.0.0.1:9095/productpage").Return(healthyReport(), nil)
	f.fileSystem.Seed(t, "/opt/practica_creativa2/stale.txt", "left over")

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{}, true)

	require.NoError(t, err)
	f.containerRuntime.AssertNumberOfCalls(t, "RemoveContainer", 2)
	exists, err := f.fileSystem.FileExists("/opt/practica_creativa2/stale.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeployCommandHandler_HandleAppliesOverridesAndRejectsInvalidConfig(t *testing.T) {
	f := newDeployFixture(t, testConfig())
	blank := " "

	err := f.sut.Handle(domain.ConfigSources{}, domain.ConfigOverrides{TeamID: &blank}, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	f.pythonEnvironment.AssertNotCalled(t, "Version", mock.Anything)
	f.scm.AssertNotCalled(t, "Clone", mock.Anything, mock.Anything)
}
