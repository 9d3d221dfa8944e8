package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

type DeploymentMode string

const (
	ModeSystemd   DeploymentMode = "systemd"
	ModeContainer DeploymentMode = "container"
)

// UnknownLabel is what the deployed application falls back to when TEAM_ID or
// APP_OWNER are missing from its environment.
const UnknownLabel = "unknown"

// DeploymentConfig holds everything a single deployment run needs. It is
// resolved once by the CLI and passed by value afterwards.
type DeploymentConfig struct {
	TeamID            string         `yaml:"teamId"`
	Owner             string         `yaml:"owner"`
	HostPort          int            `yaml:"hostPort"`
	ContainerPort     int            `yaml:"containerPort"`
	RepositoryURL     string         `yaml:"repositoryUrl"`
	InstallDir        string         `yaml:"installDir"`
	AppRelativePath   string         `yaml:"appRelativePath"`
	EntryFile         string         `yaml:"entryFile"`
	Templates         []string       `yaml:"templates"`
	Mode              DeploymentMode `yaml:"mode"`
	ServiceName       string         `yaml:"serviceName"`
	ServiceUser       string         `yaml:"serviceUser"`
	PythonInterpreter string         `yaml:"pythonInterpreter"`
	PythonVersion     string         `yaml:"pythonVersion"`
	SystemPackages    []string       `yaml:"systemPackages"`
	Strict            bool           `yaml:"strict"`
	SkipSyntaxCheck   bool           `yaml:"skipSyntaxCheck"`
	HealthCheckPath   string         `yaml:"healthCheckPath"`
}

func CreateDefaultConfig() DeploymentConfig {
	return DeploymentConfig{
		Owner:             UnknownLabel,
		ContainerPort:     8080,
		RepositoryURL:     "https://github.com/CDPS-ETSIT/practica_creativa2.git",
		InstallDir:        "/opt/practica_creativa2",
		AppRelativePath:   filepath.Join("bookinfo", "src", "productpage"),
		EntryFile:         "productpage_monolith.py",
		Templates:         []string{"productpage.html", "index.html"},
		Mode:              ModeSystemd,
		ServiceName:       "cdps-productpage",
		ServiceUser:       "ubuntu",
		PythonInterpreter: "/usr/bin/python3.9",
		PythonVersion:     "3.9",
		SystemPackages: []string{
			"git",
			"ca-certificates",
			"curl",
			"python3-pip",
			"python3-setuptools",
			"python3.9-venv",
		},
		HealthCheckPath: "/productpage",
	}
}

func (c DeploymentConfig) AppDir() string {
	return filepath.Join(c.InstallDir, c.AppRelativePath)
}

func (c DeploymentConfig) EntryPath() string {
	return filepath.Join(c.AppDir(), c.EntryFile)
}

func (c DeploymentConfig) TemplatesDir() string {
	return filepath.Join(c.AppDir(), "templates")
}

func (c DeploymentConfig) TemplatePaths() []string {
	paths := make([]string, len(c.Templates))
	for i, name := range c.Templates {
		paths[i] = filepath.Join(c.TemplatesDir(), name)
	}
	return paths
}

func (c DeploymentConfig) VirtualenvDir() string {
	return filepath.Join(c.InstallDir, ".venv")
}

func (c DeploymentConfig) VirtualenvPython() string {
	return filepath.Join(c.VirtualenvDir(), "bin", "python")
}

func (c DeploymentConfig) ServiceUnitPath() string {
	return filepath.Join("/etc/systemd/system", c.ServiceName+".service")
}

func (c DeploymentConfig) ImageTag() string {
	return fmt.Sprintf("cdps-productpage:g%s", sanitizeTagComponent(c.TeamID))
}

func (c DeploymentConfig) ContainerName() string {
	return fmt.Sprintf("productpage_cdps_%s", sanitizeTagComponent(c.TeamID))
}

// ListenPort is the port the application listens on inside its runtime. In
// container mode the host port is mapped onto ContainerPort.
func (c DeploymentConfig) ListenPort() int {
	if c.Mode == ModeContainer {
		return c.ContainerPort
	}
	return c.HostPort
}

func (c DeploymentConfig) HealthCheckURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", c.HostPort, c.HealthCheckPath)
}

// Environment is the runtime environment handed to the deployed application.
func (c DeploymentConfig) Environment() map[string]string {
	return map[string]string{
		"TEAM_ID":   c.TeamID,
		"APP_OWNER": c.Owner,
	}
}

// Validate checks a configuration that is about to be deployed.
func (c DeploymentConfig) Validate() error {
	if err := c.ValidateLabels(); err != nil {
		return err
	}
	return c.ValidateTarget()
}

// ValidateLabels checks the values that are written into the application
// source and templates.
func (c DeploymentConfig) ValidateLabels() error {
	if strings.TrimSpace(c.TeamID) == "" {
		return fmt.Errorf("team id must not be empty")
	}
	if strings.ContainsAny(c.TeamID, "\"'\n\\") {
		return fmt.Errorf("team id '%s' contains quotes, backslashes or newlines", c.TeamID)
	}
	if strings.ContainsAny(c.Owner, "\n\\") {
		return fmt.Errorf("owner '%s' contains backslashes or newlines", c.Owner)
	}
	for i, name := range c.Templates {
		if name == "" {
			return fmt.Errorf("template at index %d has empty name", i)
		}
	}
	if c.EntryFile == "" {
		return fmt.Errorf("entry file must not be empty")
	}
	return nil
}

// ValidateTarget checks only what is needed to find an existing deployment.
// The team id is required in container mode, where it names the container.
func (c DeploymentConfig) ValidateTarget() error {
	if c.Mode == ModeContainer && strings.TrimSpace(c.TeamID) == "" {
		return fmt.Errorf("team id is required in container mode")
	}
	if c.HostPort <= 0 || c.HostPort > 65535 {
		return fmt.Errorf("invalid host port %d", c.HostPort)
	}
	if c.Mode == ModeContainer && (c.ContainerPort <= 0 || c.ContainerPort > 65535) {
		return fmt.Errorf("invalid container port %d", c.ContainerPort)
	}
	if c.Mode != ModeSystemd && c.Mode != ModeContainer {
		return fmt.Errorf("unknown deployment mode '%s', expected '%s' or '%s'", c.Mode, ModeSystemd, ModeContainer)
	}
	if c.RepositoryURL == "" {
		return fmt.Errorf("repository url must not be empty")
	}
	if c.InstallDir == "" || !filepath.IsAbs(c.InstallDir) {
		return fmt.Errorf("install dir '%s' must be an absolute path", c.InstallDir)
	}
	if c.Mode == ModeSystemd {
		if c.ServiceName == "" {
			return fmt.Errorf("service name must not be empty")
		}
		if c.ServiceUser == "" {
			return fmt.Errorf("service user must not be empty")
		}
		if c.PythonInterpreter == "" {
			return fmt.Errorf("python interpreter must not be empty")
		}
	}

	return nil
}

func sanitizeTagComponent(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ConfigSources names the optional files a configuration is layered from.
type ConfigSources struct {
	ConfigFile string
	EnvFile    string
}

// ConfigOverrides carries the values given explicitly on the command line.
// Nil fields leave the loaded configuration untouched.
type ConfigOverrides struct {
	TeamID          *string
	Owner           *string
	HostPort        *int
	Mode            *DeploymentMode
	Strict          *bool
	SkipSyntaxCheck *bool
}

func (o ConfigOverrides) Apply(config DeploymentConfig) DeploymentConfig {
	if o.TeamID != nil {
		config.TeamID = *o.TeamID
	}
	if o.Owner != nil {
		config.Owner = *o.Owner
	}
	if o.HostPort != nil {
		config.HostPort = *o.HostPort
	}
	if o.Mode != nil {
		config.Mode = *o.Mode
	}
	if o.Strict != nil {
		config.Strict = *o.Strict
	}
	if o.SkipSyntaxCheck != nil {
		config.SkipSyntaxCheck = *o.SkipSyntaxCheck
	}
	if strings.TrimSpace(config.Owner) == "" {
		config.Owner = UnknownLabel
	}
	return config
}
