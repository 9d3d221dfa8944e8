package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var defaultConfigFilePath = filepath.Join("~", ".ppdeploy.yaml")

// Keys read from an env file. They match the variables the deployed
// application itself reads, plus the port and mode of the deployment.
const (
	envTeamID   = "TEAM_ID"
	envOwner    = "APP_OWNER"
	envHostPort = "HOST_PORT"
	envMode     = "DEPLOY_MODE"
)

type ConfigRepository interface {
	// LoadConfig layers defaults, the YAML config file and the env file, in
	// that order. Command line overrides are applied by the caller.
	LoadConfig(sources domain.ConfigSources) (domain.DeploymentConfig, error)
}

type FileSystemConfigRepository struct {
	fileSystem ports.FileSystem
	logger     *zap.Logger
}

func ProvideFileSystemConfigRepository(fileSystem ports.FileSystem, logger *zap.Logger) *FileSystemConfigRepository {
	return &FileSystemConfigRepository{
		fileSystem: fileSystem,
		logger:     logger,
	}
}

func (c *FileSystemConfigRepository) LoadConfig(sources domain.ConfigSources) (domain.DeploymentConfig, error) {
	config := domain.CreateDefaultConfig()

	configFile := sources.ConfigFile
	if configFile == "" {
		exists, err := c.fileSystem.FileExists(defaultConfigFilePath)
		if err != nil {
			return config, err
		}
		if exists {
			configFile = defaultConfigFilePath
		}
	}

	if configFile != "" {
		if err := c.loadYaml(configFile, &config); err != nil {
			return config, err
		}
		c.logger.Debug("Loaded config file", zap.String("path", configFile))
	}

	if sources.EnvFile != "" {
		if err := c.loadEnvFile(sources.EnvFile, &config); err != nil {
			return config, err
		}
		c.logger.Debug("Loaded env file", zap.String("path", sources.EnvFile))
	}

	return config, nil
}

func (c *FileSystemConfigRepository) loadYaml(path string, config *domain.DeploymentConfig) error {
	content, err := c.fileSystem.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *FileSystemConfigRepository) loadEnvFile(path string, config *domain.DeploymentConfig) error {
	content, err := c.fileSystem.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	values, err := godotenv.UnmarshalBytes(content)
	if err != nil {
		return fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	if value, ok := values[envTeamID]; ok {
		config.TeamID = value
	}
	if value, ok := values[envOwner]; ok {
		config.Owner = value
	}
	if value, ok := values[envHostPort]; ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s '%s' in %s", envHostPort, value, path)
		}
		config.HostPort = port
	}
	if value, ok := values[envMode]; ok {
		config.Mode = domain.DeploymentMode(value)
	}
	return nil
}

var _ ConfigRepository = (*FileSystemConfigRepository)(nil)
