package container_runtime

import (
	"fmt"
	"sort"
	"strings"

	"ppdeploy/internal/ports"

	"go.uber.org/zap"
)

type Docker struct {
	commandRunner ports.CommandRunner
	logger        *zap.Logger
}

func ProvideDocker(commandRunner ports.CommandRunner, logger *zap.Logger) *Docker {
	return &Docker{
		commandRunner: commandRunner,
		logger:        logger,
	}
}

func (d *Docker) BuildImage(tag string, contextDir string) error {
	if _, err := d.commandRunner.Run("docker", "build", "-t", tag, contextDir); err != nil {
		return fmt.Errorf("failed to build image %s: %w", tag, err)
	}
	return nil
}

func (d *Docker) RunContainer(spec ports.ContainerSpec) error {
	args := []string{
		"run", "-d",
		"--name", spec.Name,
		"-p", fmt.Sprintf("%d:%d", spec.HostPort, spec.ContainerPort),
	}

	// Values go verbatim after -e; docker env files would keep quotes literally.
	keys := make([]string, 0, len(spec.Environment))
	for key := range spec.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-e", key+"="+spec.Environment[key])
	}

	args = append(args, spec.Image)
	output, err := d.commandRunner.Run("docker", args...)
	if err != nil {
		return fmt.Errorf("failed to run container %s: %w", spec.Name, err)
	}
	d.logger.Debug("Started container", zap.String("name", spec.Name), zap.String("id", strings.TrimSpace(string(output))))
	return nil
}

func (d *Docker) RemoveContainer(name string) error {
	output, err := d.commandRunner.Run("docker", "rm", "-f", name)
	if err != nil {
		if strings.Contains(string(output), "No such container") {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w", name, err)
	}
	return nil
}

var _ ports.ContainerRuntime = (*Docker)(nil)
