package service_manager

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"ppdeploy/internal/ports"
)

const unitDirectory = "/etc/systemd/system"

const unitTemplate = `[Unit]
Description={{ .Description }}
After=network.target

[Service]
Type=simple
User={{ .User }}
WorkingDirectory={{ .WorkingDirectory }}
{{- range .Environment }}
Environment={{ . }}
{{- end }}
ExecStart={{ .ExecStart }}
Restart={{ .RestartPolicy }}
RestartSec=2

[Install]
WantedBy=multi-user.target
`

// unitValueEscaper quotes a value for a double quoted unit file setting.
// Percent signs would otherwise be read as specifiers.
var unitValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "%", "%%")

type Systemd struct {
	commandRunner ports.CommandRunner
	fileSystem    ports.FileSystem
	templater     ports.Templater
}

func ProvideSystemd(commandRunner ports.CommandRunner, fileSystem ports.FileSystem, templater ports.Templater) *Systemd {
	return &Systemd{
		commandRunner: commandRunner,
		fileSystem:    fileSystem,
		templater:     templater,
	}
}

// UnitPath returns where the unit file of a service lives.
func UnitPath(name string) string {
	return filepath.Join(unitDirectory, unitName(name))
}

func (s *Systemd) WriteUnit(unit ports.ServiceUnit) error {
	content, err := s.RenderUnit(unit)
	if err != nil {
		return err
	}

	if err := s.fileSystem.WriteFile(UnitPath(unit.Name), []byte(content), ports.ReadAllWriteOwner); err != nil {
		return fmt.Errorf("failed to write unit %s: %w", unitName(unit.Name), err)
	}
	return nil
}

// RenderUnit renders the unit file without writing it.
func (s *Systemd) RenderUnit(unit ports.ServiceUnit) (string, error) {
	restart := unit.RestartPolicy
	if restart == "" {
		restart = "on-failure"
	}

	keys := make([]string, 0, len(unit.Environment))
	for key := range unit.Environment {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	environment := make([]string, 0, len(keys))
	for _, key := range keys {
		environment = append(environment, `"`+unitValueEscaper.Replace(key+"="+unit.Environment[key])+`"`)
	}

	return s.templater.Render(unitTemplate, unitName(unit.Name), map[string]interface{}{
		"Description":      unit.Description,
		"User":             unit.User,
		"WorkingDirectory": unit.WorkingDirectory,
		"Environment":      environment,
		"ExecStart":        unit.ExecStart,
		"RestartPolicy":    restart,
	})
}

func (s *Systemd) RemoveUnit(name string) error {
	return s.fileSystem.RemoveAll(UnitPath(name))
}

func (s *Systemd) Reload() error {
	return s.systemctl("daemon-reload")
}

func (s *Systemd) EnableAndStart(name string) error {
	return s.systemctl("enable", "--now", unitName(name))
}

func (s *Systemd) Stop(name string) error {
	return s.systemctl("stop", unitName(name))
}

func (s *Systemd) Disable(name string) error {
	return s.systemctl("disable", unitName(name))
}

func (s *Systemd) ResetFailed(name string) error {
	return s.systemctl("reset-failed", unitName(name))
}

// Status never fails: an inactive unit makes systemctl exit non-zero but its
// report is still what the user wants to see.
func (s *Systemd) Status(name string) string {
	output := s.commandRunner.RunBestEffort("systemctl", "status", unitName(name), "--no-pager", "-l")
	return strings.TrimRight(string(output), "\n")
}

func (s *Systemd) systemctl(args ...string) error {
	if _, err := s.commandRunner.Run("systemctl", args...); err != nil {
		return fmt.Errorf("failed to run systemctl %s: %w", args[0], err)
	}
	return nil
}

func unitName(name string) string {
	if strings.HasSuffix(name, ".service") {
		return name
	}
	return name + ".service"
}

var _ ports.ServiceManager = (*Systemd)(nil)
