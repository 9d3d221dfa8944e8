package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.PythonEnvironment = (*MockPythonEnvironment)(nil)
var _ ports.SyntaxChecker = (*MockSyntaxChecker)(nil)

type MockPythonEnvironment struct {
	mock.Mock
}

func (m *MockPythonEnvironment) Version(interpreter string) (string, error) {
	args := m.Called(interpreter)
	return args.String(0), args.Error(1)
}

func (m *MockPythonEnvironment) CreateVirtualenv(interpreter string, venvDir string) error {
	args := m.Called(interpreter, venvDir)
	return args.Error(0)
}

func (m *MockPythonEnvironment) InstallRequirements(venvDir string, requirementsFile string) error {
	args := m.Called(venvDir, requirementsFile)
	return args.Error(0)
}

type MockSyntaxChecker struct {
	mock.Mock
}

func (m *MockSyntaxChecker) Check(interpreter string, path string) error {
	args := m.Called(interpreter, path)
	return args.Error(0)
}
