package service_manager

import (
	"errors"
	"testing"

	"ppdeploy/internal/adapters/templater"
	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"
	"ppdeploy/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productPageUnit() ports.ServiceUnit {
	return ports.ServiceUnit{
		Name:             "cdps-productpage",
		Description:      "CDPS BookInfo Productpage (monolith)",
		WorkingDirectory: "/opt/practica_creativa2/bookinfo/src/productpage",
		User:             "ubuntu",
		Environment:      map[string]string{"TEAM_ID": "27", "APP_OWNER": "Moreno et al"},
		ExecStart:        "/opt/practica_creativa2/bookinfo/src/productpage/venv/bin/python productpage_monolith.py 9095",
	}
}

const productPageUnitFile = `[Unit]
Description=CDPS BookInfo Productpage (monolith)
After=network.target

[Service]
Type=simple
User=ubuntu
WorkingDirectory=/opt/practica_creativa2/bookinfo/src/productpage
Environment="APP_OWNER=Moreno et al"
Environment="TEAM_ID=27"
ExecStart=/opt/practica_creativa2/bookinfo/src/productpage/venv/bin/python productpage_monolith.py 9095
Restart=on-failure
RestartSec=2

[Install]
WantedBy=multi-user.target
`

func TestSystemd_WriteUnit(t *testing.T) {
	fileSystem := testutil.NewTestFileSystem(t)
	sut := ProvideSystemd(new(testutil.MockCommandRunner), fileSystem, templater.ProvideTextTemplater())

	err := sut.WriteUnit(productPageUnit())

	require.NoError(t, err)
	assert.Equal(t, productPageUnitFile, fileSystem.Content(t, "/etc/systemd/system/cdps-productpage.service"))
}

func TestSystemd_RenderUnitEscapesEnvironment(t *testing.T) {
	unit := productPageUnit()
	unit.Environment = map[string]string{"APP_OWNER": `50% "quoted" \ owner`}
	sut := ProvideSystemd(new(testutil.MockCommandRunner), new(testutil.MockFileSystem), templater.ProvideTextTemplater())

	content, err := sut.RenderUnit(unit)

	require.NoError(t, err)
	assert.Contains(t, content, `Environment="APP_OWNER=50%% \"quoted\" \\ owner"`+"\n")
}

func TestSystemd_Commands(t *testing.T) {
	tests := []struct {
		name string
		call func(s *Systemd) error
		args []string
	}{
		{"reload", func(s *Systemd) error { return s.Reload() }, []string{"daemon-reload"}},
		{"enable and start", func(s *Systemd) error { return s.EnableAndStart("cdps-productpage") }, []string{"enable", "--now", "cdps-productpage.service"}},
		{"stop", func(s *Systemd) error { return s.Stop("cdps-productpage") }, []string{"stop", "cdps-productpage.service"}},
		{"disable", func(s *Systemd) error { return s.Disable("cdps-productpage.service") }, []string{"disable", "cdps-productpage.service"}},
		{"reset failed", func(s *Systemd) error { return s.ResetFailed("cdps-productpage") }, []string{"reset-failed", "cdps-productpage.service"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commandRunner := new(testutil.MockCommandRunner)
			commandRunner.On("Run", "systemctl", tt.args).Return([]byte(""), nil)
			sut := ProvideSystemd(commandRunner, new(testutil.MockFileSystem), templater.ProvideTextTemplater())

			require.NoError(t, tt.call(sut))
			commandRunner.AssertExpectations(t)
		})
	}
}

func TestSystemd_CommandErrorsKeepTheirKind(t *testing.T) {
	commandRunner := new(testutil.MockCommandRunner)
	commandErr := &domain.CommandError{Name: "systemctl", ExitCode: 5, Err: errors.New("exit status 5")}
	commandRunner.On("Run", "systemctl", []string{"stop", "cdps-productpage.service"}).Return([]byte("Unit not loaded."), commandErr)
	sut := ProvideSystemd(commandRunner, new(testutil.MockFileSystem), templater.ProvideTextTemplater())

	err := sut.Stop("cdps-productpage")

	require.ErrorIs(t, err, domain.ErrExternalCommandFailed)
	assert.Contains(t, err.Error(), "systemctl stop")
}

func TestSystemd_StatusIsBestEffort(t *testing.T) {
	commandRunner := new(testutil.MockCommandRunner)
	commandRunner.On("RunBestEffort", "systemctl", []string{"status", "cdps-productpage.service", "--no-pager", "-l"}).
		Return([]byte("● cdps-productpage.service\n   Active: inactive (dead)\n"))
	sut := ProvideSystemd(commandRunner, new(testutil.MockFileSystem), templater.ProvideTextTemplater())

	assert.Equal(t, "● cdps-productpage.service\n   Active: inactive (dead)", sut.Status("cdps-productpage"))
}

func TestSystemd_RemoveUnit(t *testing.T) {
	fileSystem := new(testutil.MockFileSystem)
	fileSystem.On("RemoveAll", "/etc/systemd/system/cdps-productpage.service").Return(nil)
	sut := ProvideSystemd(new(testutil.MockCommandRunner), fileSystem, templater.ProvideTextTemplater())

	require.NoError(t, sut.RemoveUnit("cdps-productpage"))
	fileSystem.AssertExpectations(t)
}
