package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.Scm = (*MockScm)(nil)

type MockScm struct {
	mock.Mock
}

func (m *MockScm) Clone(repositoryUrl string, repositoryPath string) error {
	args := m.Called(repositoryUrl, repositoryPath)
	return args.Error(0)
}

func (m *MockScm) Revision(repositoryPath string) (string, error) {
	args := m.Called(repositoryPath)
	return args.String(0), args.Error(1)
}
