package core

import (
	"fmt"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"
)

// EnvironmentEnsurer checks that the host provides the interpreter the
// monolith was written for.
type EnvironmentEnsurer struct {
	pythonEnvironment ports.PythonEnvironment
}

func ProvideEnvironmentEnsurer(pythonEnvironment ports.PythonEnvironment) EnvironmentEnsurer {
	return EnvironmentEnsurer{pythonEnvironment: pythonEnvironment}
}

func (ee *EnvironmentEnsurer) EnsureInterpreterVersion(interpreter string, expectedVersion string) error {
	version, err := ee.pythonEnvironment.Version(interpreter)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEnvironmentMismatch, err)
	}

	if version != expectedVersion {
		return fmt.Errorf("%w: %s is Python %s, expected %s", domain.ErrEnvironmentMismatch, interpreter, version, expectedVersion)
	}

	return nil
}
