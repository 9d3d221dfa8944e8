package testutil

import (
	"ppdeploy/internal/ports"

	"github.com/stretchr/testify/mock"
)

var _ ports.HealthProber = (*MockHealthProber)(nil)

type MockHealthProber struct {
	mock.Mock
}

func (m *MockHealthProber) Probe(url string) (ports.HealthReport, error) {
	args := m.Called(url)
	return args.Get(0).(ports.HealthReport), args.Error(1)
}
