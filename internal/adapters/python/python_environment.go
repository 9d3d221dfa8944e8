package python

import (
	"fmt"
	"path/filepath"
	"strings"

	"ppdeploy/internal/ports"
)

const versionScript = "import sys; print('%d.%d' % sys.version_info[:2])"

// PythonEnvironment drives the interpreter and pip of a virtualenv through
// the command runner.
type PythonEnvironment struct {
	commandRunner ports.CommandRunner
}

func ProvidePythonEnvironment(commandRunner ports.CommandRunner) *PythonEnvironment {
	return &PythonEnvironment{commandRunner: commandRunner}
}

func (p *PythonEnvironment) Version(interpreter string) (string, error) {
	output, err := p.commandRunner.Run(interpreter, "-c", versionScript)
	if err != nil {
		return "", fmt.Errorf("failed to query version of %s: %w", interpreter, err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (p *PythonEnvironment) CreateVirtualenv(interpreter string, venvDir string) error {
	if _, err := p.commandRunner.Run(interpreter, "-m", "venv", venvDir); err != nil {
		return fmt.Errorf("failed to create virtualenv %s: %w", venvDir, err)
	}
	return nil
}

func (p *PythonEnvironment) InstallRequirements(venvDir string, requirementsFile string) error {
	pip := filepath.Join(venvDir, "bin", "pip")

	if _, err := p.commandRunner.Run(pip, "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("failed to upgrade pip in %s: %w", venvDir, err)
	}
	if _, err := p.commandRunner.Run(pip, "install", "-r", requirementsFile); err != nil {
		return fmt.Errorf("failed to install %s: %w", requirementsFile, err)
	}
	return nil
}

var _ ports.PythonEnvironment = (*PythonEnvironment)(nil)

// PyCompileChecker byte-compiles a file to catch syntax errors introduced by
// patching before any service is started.
type PyCompileChecker struct {
	commandRunner ports.CommandRunner
}

func ProvidePyCompileChecker(commandRunner ports.CommandRunner) *PyCompileChecker {
	return &PyCompileChecker{commandRunner: commandRunner}
}

func (c *PyCompileChecker) Check(interpreter string, path string) error {
	if _, err := c.commandRunner.Run(interpreter, "-m", "py_compile", path); err != nil {
		return fmt.Errorf("failed to compile %s: %w", path, err)
	}
	return nil
}

var _ ports.SyntaxChecker = (*PyCompileChecker)(nil)
