package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.ServiceManager = (*MockServiceManager)(nil)

// MockServiceManager records every service-manager call so tests can assert
// what was, and was not, started.
type MockServiceManager struct {
	mock.Mock
}

func (m *MockServiceManager) WriteUnit(unit ports.ServiceUnit) error {
	args := m.Called(unit)
	return args.Error(0)
}

func (m *MockServiceManager) RemoveUnit(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockServiceManager) Reload() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockServiceManager) EnableAndStart(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockServiceManager) Stop(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockServiceManager) Disable(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockServiceManager) ResetFailed(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockServiceManager) Status(name string) string {
	args := m.Called(name)
	return args.String(0)
}
