package testutil

import (
	"ppdeploy/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) LoadConfig(sources domain.ConfigSources) (domain.DeploymentConfig, error) {
	args := m.Called(sources)
	return args.Get(0).(domain.DeploymentConfig), args.Error(1)
}
