package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

// Compile-time interface compliance check
var _ ports.ContainerRuntime = (*MockContainerRuntime)(nil)

type MockContainerRuntime struct {
	mock.Mock
}

func (m *MockContainerRuntime) BuildImage(tag string, contextDir string) error {
	args := m.Called(tag, contextDir)
	return args.Error(0)
}

func (m *MockContainerRuntime) RunContainer(spec ports.ContainerSpec) error {
	args := m.Called(spec)
	return args.Error(0)
}

func (m *MockContainerRuntime) RemoveContainer(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
