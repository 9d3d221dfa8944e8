package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ppdeploy/internal/cli/output"
	"ppdeploy/internal/cli/progress"
	"ppdeploy/internal/core"
	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/core/patch"
	"ppdeploy/internal/ports"

	"go.uber.org/zap"
)

// hostPython compiles the entry file when the application runs in a
// container and no virtualenv exists on the host.
const hostPython = "python3"

const dockerfileTemplate = `FROM python:{{ .PythonVersion }}-slim
WORKDIR /opt/productpage
COPY . /opt/productpage
RUN pip install --no-cache-dir -r requirements.txt
EXPOSE {{ .ContainerPort }}
CMD ["python3", "{{ .EntryFile }}", "{{ .ContainerPort }}"]
`

type DeployCommandHandler struct {
	configRepository   core.ConfigRepository
	environmentEnsurer core.EnvironmentEnsurer
	cleaner            *core.DeploymentCleaner
	patcher            *core.ApplicationPatcher
	validator          *core.Validator
	commandRunner      ports.CommandRunner
	fileSystem         ports.FileSystem
	scm                ports.Scm
	pythonEnvironment  ports.PythonEnvironment
	serviceManager     ports.ServiceManager
	containerRuntime   ports.ContainerRuntime
	templater          ports.Templater
	healthProber       ports.HealthProber
	logger             *zap.Logger
	euid               func() int
}

func ProvideDeployCommandHandler(
	configRepository core.ConfigRepository,
	environmentEnsurer core.EnvironmentEnsurer,
	cleaner *core.DeploymentCleaner,
	patcher *core.ApplicationPatcher,
	validator *core.Validator,
	commandRunner ports.CommandRunner,
	fileSystem ports.FileSystem,
	scm ports.Scm,
	pythonEnvironment ports.PythonEnvironment,
	serviceManager ports.ServiceManager,
	containerRuntime ports.ContainerRuntime,
	templater ports.Templater,
	healthProber ports.HealthProber,
	logger *zap.Logger,
) DeployCommandHandler {
	return DeployCommandHandler{
		configRepository:   configRepository,
		environmentEnsurer: environmentEnsurer,
		cleaner:            cleaner,
		patcher:            patcher,
		validator:          validator,
		commandRunner:      commandRunner,
		fileSystem:         fileSystem,
		scm:                scm,
		pythonEnvironment:  pythonEnvironment,
		serviceManager:     serviceManager,
		containerRuntime:   containerRuntime,
		templater:          templater,
		healthProber:       healthProber,
		logger:             logger,
		euid:               os.Geteuid,
	}
}

type deployStep struct {
	name string
	info string
	run  func() error
	// skip, when set, marks the step skipped with this reason instead of running it.
	skip string
	// nonFatal steps report their failure and let the run finish.
	nonFatal bool
}

// deployment carries the state of one run between steps.
type deployment struct {
	config   domain.DeploymentConfig
	revision string
	results  []patch.Result
	health   ports.HealthReport
}

func (h *DeployCommandHandler) Handle(sources domain.ConfigSources, overrides domain.ConfigOverrides, clean bool) error {
	config, err := loadConfig(h.configRepository, sources, overrides, domain.DeploymentConfig.Validate)
	if err != nil {
		return err
	}

	output.PrintHeader(fmt.Sprintf("Deploying productpage for team %s (%s mode)", config.TeamID, config.Mode))

	d := &deployment{config: config}
	steps := h.steps(d, clean)

	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.name
	}

	tracker := progress.NewTrackerWithVerb(names, "Running")
	tracker.Start()

	var warnings []error
	for i, step := range steps {
		if step.skip != "" {
			tracker.SkipItem(i, step.skip)
			continue
		}
		if step.info != "" {
			tracker.SetInfo(i, step.info)
		}
		err := tracker.Track(i, step.run)
		if err == nil {
			continue
		}
		if step.nonFatal {
			warnings = append(warnings, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		tracker.Stop()
		printPatchResults(d.results, config.AppDir())
		return fmt.Errorf("%s failed: %w", step.name, err)
	}
	tracker.Stop()

	fmt.Println()
	printPatchResults(d.results, config.AppDir())
	if d.revision != "" {
		output.PrintStep(fmt.Sprintf("Revision: %s", d.revision))
	}

	if config.Mode == domain.ModeSystemd {
		output.PrintHeader("Service status")
		output.PrintBlock(h.serviceManager.Status(config.ServiceName))
	}

	if d.health.Title != "" {
		output.PrintStep(fmt.Sprintf("Page title: %s", d.health.Title))
	}
	for _, warning := range warnings {
		output.PrintWarning(warning.Error())
	}

	fmt.Println()
	output.PrintSuccess(fmt.Sprintf("Deployed in %s mode: %s", config.Mode, tracker.Summary()))
	output.PrintInfo(fmt.Sprintf("Application URL: %s", config.HealthCheckURL()))
	return nil
}

func (h *DeployCommandHandler) steps(d *deployment, clean bool) []deployStep {
	config := d.config
	systemd := config.Mode == domain.ModeSystemd
	interpreter := hostPython
	if systemd {
		interpreter = config.VirtualenvPython()
	}

	var steps []deployStep
	if systemd {
		steps = append(steps, deployStep{
			name: "preflight",
			info: config.PythonInterpreter,
			run: func() error {
				if h.euid() != 0 {
					return fmt.Errorf("%w: systemd mode installs packages and units, rerun as root", domain.ErrEnvironmentMismatch)
				}
				return h.environmentEnsurer.EnsureInterpreterVersion(config.PythonInterpreter, config.PythonVersion)
			},
		})
	}

	cleanStep := deployStep{name: "clean", run: func() error { return h.clean(config) }}
	if !clean {
		cleanStep.skip = "not requested"
	}
	steps = append(steps, cleanStep)

	if systemd {
		steps = append(steps, deployStep{name: "system packages", run: func() error { return h.installSystemPackages(config) }})
	}

	steps = append(steps, deployStep{name: "clone", info: config.RepositoryURL, run: func() error {
		revision, err := h.clone(config)
		d.revision = revision
		return err
	}})

	if systemd {
		steps = append(steps, deployStep{name: "virtualenv", run: func() error { return h.prepareVirtualenv(config) }})
	}

	steps = append(steps,
		deployStep{name: "source patch", run: d.collect(h.patcher.PatchSource)},
		deployStep{name: "bind address", run: d.collect(h.patcher.NormalizeBindAddress)},
		deployStep{name: "templates", run: d.collect(h.patcher.PatchTemplates)},
		deployStep{name: "validation", run: func() error { return h.validator.Validate(config, interpreter) }},
	)

	if systemd {
		steps = append(steps,
			deployStep{name: "ownership", run: func() error { return h.fixOwnership(config) }},
			deployStep{name: "service", info: config.ServiceName, run: func() error { return h.registerService(config) }},
		)
	} else {
		steps = append(steps,
			deployStep{name: "image", info: config.ImageTag(), run: func() error { return h.buildImage(config) }},
			deployStep{name: "container", info: config.ContainerName(), run: func() error { return h.runContainer(config) }},
		)
	}

	steps = append(steps, deployStep{name: "health check", info: config.HealthCheckURL(), nonFatal: true, run: func() error {
		report, err := h.healthProber.Probe(config.HealthCheckURL())
		d.health = report
		return err
	}})

	return steps
}

func (d *deployment) collect(pass func(domain.DeploymentConfig) ([]patch.Result, error)) func() error {
	return func() error {
		results, err := pass(d.config)
		d.results = append(d.results, results...)
		return err
	}
}

func (h *DeployCommandHandler) clean(config domain.DeploymentConfig) error {
	for _, failure := range h.cleaner.Clean(config) {
		h.logger.Warn("Clean step failed", zap.Error(failure))
	}
	return nil
}

func (h *DeployCommandHandler) installSystemPackages(config domain.DeploymentConfig) error {
	if _, err := h.commandRunner.Run("apt-get", "update", "-q"); err != nil {
		return fmt.Errorf("failed to update package index: %w", err)
	}
	args := append([]string{"install", "-y", "-q"}, config.SystemPackages...)
	if _, err := h.commandRunner.Run("apt-get", args...); err != nil {
		return fmt.Errorf("failed to install system packages: %w", err)
	}
	return nil
}

// clone checks out the repository and returns the checked out revision, or
// an empty string when it cannot be read.
func (h *DeployCommandHandler) clone(config domain.DeploymentConfig) (string, error) {
	if err := h.scm.Clone(config.RepositoryURL, config.InstallDir); err != nil {
		return "", err
	}
	revision, err := h.scm.Revision(config.InstallDir)
	if err != nil {
		h.logger.Debug("Could not read checked out revision", zap.Error(err))
		return "", nil
	}
	h.logger.Debug("Checked out repository", zap.String("url", config.RepositoryURL), zap.String("revision", revision))
	return revision, nil
}

func (h *DeployCommandHandler) prepareVirtualenv(config domain.DeploymentConfig) error {
	if err := h.pythonEnvironment.CreateVirtualenv(config.PythonInterpreter, config.VirtualenvDir()); err != nil {
		return err
	}
	requirements := filepath.Join(config.AppDir(), "requirements.txt")
	if err := h.pythonEnvironment.InstallRequirements(config.VirtualenvDir(), requirements); err != nil {
		return err
	}
	return h.environmentEnsurer.EnsureInterpreterVersion(config.VirtualenvPython(), config.PythonVersion)
}

func (h *DeployCommandHandler) fixOwnership(config domain.DeploymentConfig) error {
	owner := config.ServiceUser + ":" + config.ServiceUser
	if _, err := h.commandRunner.Run("chown", "-R", owner, config.InstallDir); err != nil {
		return fmt.Errorf("failed to hand %s to %s: %w", config.InstallDir, config.ServiceUser, err)
	}
	return nil
}

func (h *DeployCommandHandler) registerService(config domain.DeploymentConfig) error {
	unit := ports.ServiceUnit{
		Name:             config.ServiceName,
		Description:      "CDPS BookInfo Productpage (monolith)",
		WorkingDirectory: config.AppDir(),
		User:             config.ServiceUser,
		Environment:      config.Environment(),
		ExecStart:        fmt.Sprintf("%s %s %d", config.VirtualenvPython(), config.EntryPath(), config.HostPort),
	}
	if err := h.serviceManager.WriteUnit(unit); err != nil {
		return err
	}
	if err := h.serviceManager.Reload(); err != nil {
		return err
	}
	return h.serviceManager.EnableAndStart(config.ServiceName)
}

func (h *DeployCommandHandler) buildImage(config domain.DeploymentConfig) error {
	dockerfile, err := h.templater.Render(dockerfileTemplate, "Dockerfile", map[string]interface{}{
		"PythonVersion": config.PythonVersion,
		"ContainerPort": config.ContainerPort,
		"EntryFile":     config.EntryFile,
	})
	if err != nil {
		return err
	}

	dockerfilePath := filepath.Join(config.AppDir(), "Dockerfile")
	if err := h.fileSystem.WriteFile(dockerfilePath, []byte(dockerfile), ports.ReadAllWriteOwner); err != nil {
		return fmt.Errorf("failed to write %s: %w", dockerfilePath, err)
	}

	return h.containerRuntime.BuildImage(config.ImageTag(), config.AppDir())
}

func (h *DeployCommandHandler) runContainer(config domain.DeploymentConfig) error {
	if err := h.containerRuntime.RemoveContainer(config.ContainerName()); err != nil {
		h.logger.Warn("Failed to remove previous container", zap.String("container", config.ContainerName()), zap.Error(err))
	}
	return h.containerRuntime.RunContainer(ports.ContainerSpec{
		Name:          config.ContainerName(),
		Image:         config.ImageTag(),
		HostPort:      config.HostPort,
		ContainerPort: config.ContainerPort,
		Environment:   config.Environment(),
	})
}

// loadConfig resolves the configuration for a command: file and env sources,
// then command line overrides, then validation.
func loadConfig(
	configRepository core.ConfigRepository,
	sources domain.ConfigSources,
	overrides domain.ConfigOverrides,
	validate func(domain.DeploymentConfig) error,
) (domain.DeploymentConfig, error) {
	config, err := configRepository.LoadConfig(sources)
	if err != nil {
		return config, fmt.Errorf("failed to load configuration: %w", err)
	}
	config = overrides.Apply(config)
	if err := validate(config); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func printPatchResults(results []patch.Result, baseDir string) {
	if len(results) == 0 {
		return
	}

	applied := 0
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Status == patch.StatusApplied {
			applied++
		}
		file, err := filepath.Rel(baseDir, r.File)
		if err != nil {
			file = r.File
		}
		rows = append(rows, []string{file, r.Operation, r.Status.String(), strconv.Itoa(r.Matches)})
	}

	footer := []string{"", "", fmt.Sprintf("%d applied", applied), ""}
	output.WriteTable(os.Stdout, []string{"File", "Operation", "Status", "Matches"}, rows, footer)
}
