package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.CommandRunner = (*MockCommandRunner)(nil)

// MockCommandRunner provides a testify mock for ports.CommandRunner
type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(name string, args ...string) ([]byte, error) {
	callArgs := m.Called(name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

func (m *MockCommandRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	callArgs := m.Called(dir, name, args)
	if callArgs.Get(0) == nil {
		return nil, callArgs.Error(1)
	}
	return callArgs.Get(0).([]byte), callArgs.Error(1)
}

func (m *MockCommandRunner) RunBestEffort(name string, args ...string) []byte {
	callArgs := m.Called(name, args)
	if callArgs.Get(0) == nil {
		return nil
	}
	return callArgs.Get(0).([]byte)
}
