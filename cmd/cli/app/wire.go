//go:build wireinject
// +build wireinject

package app

import (
	"ppdeploy/internal/adapters/command_runner"
	"ppdeploy/internal/adapters/container_runtime"
	"ppdeploy/internal/adapters/filesystem"
	"ppdeploy/internal/adapters/health"
	"ppdeploy/internal/adapters/python"
	"ppdeploy/internal/adapters/scm"
	"ppdeploy/internal/adapters/service_manager"
	"ppdeploy/internal/adapters/templater"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/handler"
	"ppdeploy/internal/core/patch"
	"ppdeploy/internal/logging"
	"ppdeploy/internal/ports"

	"github.com/google/wire"
)

var Adapter = wire.NewSet(
	logging.ProvideLogger,
	command_runner.ProvideOsCommandRunner,
	wire.Bind(new(ports.CommandRunner), new(*command_runner.OsCommandRunner)),
	filesystem.ProvideOsFileSystem,
	wire.Bind(new(ports.FileSystem), new(*filesystem.OsFileSystem)),
	scm.ProvideGitClient,
	scm.ProvideGit,
	wire.Bind(new(ports.Scm), new(*scm.Git)),
	templater.ProvideTextTemplater,
	service_manager.ProvideSystemd,
	wire.Bind(new(ports.ServiceManager), new(*service_manager.Systemd)),
	container_runtime.ProvideDocker,
	wire.Bind(new(ports.ContainerRuntime), new(*container_runtime.Docker)),
	python.ProvidePythonEnvironment,
	wire.Bind(new(ports.PythonEnvironment), new(*python.PythonEnvironment)),
	python.ProvidePyCompileChecker,
	wire.Bind(new(ports.SyntaxChecker), new(*python.PyCompileChecker)),
	health.ProvideHTTPProber,
	wire.Bind(new(ports.HealthProber), new(*health.HTTPProber)),
)

// CoreSet provides domain/core dependencies
var CoreSet = wire.NewSet(
	core.ProvideFileSystemConfigRepository,
	wire.Bind(new(core.ConfigRepository), new(*core.FileSystemConfigRepository)),
	core.ProvideEnvironmentEnsurer,
	core.ProvideDeploymentCleaner,
	core.ProvideApplicationPatcher,
	core.ProvideValidator,
	patch.ProvideEngine,
)

// CommandHandlerSet combines all sets needed for command handlers
var CommandHandlerSet = wire.NewSet(
	Adapter,
	CoreSet,
)

func InjectDeployCommandHandler(verbose logging.Verbose) (handler.DeployCommandHandler, func(), error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideDeployCommandHandler,
	)
	return handler.DeployCommandHandler{}, nil, nil
}

func InjectPatchCommandHandler(verbose logging.Verbose) (handler.PatchCommandHandler, func(), error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvidePatchCommandHandler,
	)
	return handler.PatchCommandHandler{}, nil, nil
}

func InjectCleanCommandHandler(verbose logging.Verbose) (handler.CleanCommandHandler, func(), error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideCleanCommandHandler,
	)
	return handler.CleanCommandHandler{}, nil, nil
}

func InjectHealthCommandHandler(verbose logging.Verbose) (handler.HealthCommandHandler, func(), error) {
	wire.Build(
		CommandHandlerSet,
		handler.ProvideHealthCommandHandler,
	)
	return handler.HealthCommandHandler{}, nil, nil
}
