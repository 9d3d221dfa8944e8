package scm

import (
	"fmt"
	"path/filepath"
	"strings"

	"ppdeploy/internal/ports"
)

// isAuthError checks if the error output indicates the remote refused the
// credentials or asked for ones it could not get.
func isAuthError(output string) bool {
	return strings.Contains(output, "Permission denied") ||
		strings.Contains(output, "Authentication failed") ||
		strings.Contains(output, "could not read Username")
}

// isNotFoundError checks if the error output indicates a wrong repository URL.
func isNotFoundError(output string) bool {
	return strings.Contains(output, "Repository not found") ||
		strings.Contains(output, "does not appear to be a git repository")
}

// wrapCloneError wraps an error with troubleshooting information.
func wrapCloneError(url string, output []byte, err error) error {
	outputStr := string(output)
	if isAuthError(outputStr) {
		return fmt.Errorf("authentication failed while cloning %s.\n\n"+
			"The repository must be publicly readable, or credentials must be\n"+
			"configured for the user running the deployment.\n\n"+
			"Original error: %w", url, err)
	}
	if isNotFoundError(outputStr) {
		return fmt.Errorf("repository %s was not found. Check repositoryUrl in the configuration.\n\n"+
			"Original error: %w", url, err)
	}
	return fmt.Errorf("failed to clone %s: %w", url, err)
}

type GitClient struct {
	commandRunner ports.CommandRunner
	fileSystem    ports.FileSystem
}

func ProvideGitClient(commandRunner ports.CommandRunner, fileSystem ports.FileSystem) *GitClient {
	return &GitClient{
		commandRunner: commandRunner,
		fileSystem:    fileSystem,
	}
}

func (g *GitClient) ContainsRepository(repositoryPath string) bool {
	exists, err := g.fileSystem.FileExists(filepath.Join(repositoryPath, ".git", "HEAD"))
	return err == nil && exists
}

func (g *GitClient) GetRevisionForCommit(repositoryPath string, commit string) (string, error) {
	output, err := g.commandRunner.RunInDir(repositoryPath, "git", "rev-parse", commit)
	if err != nil {
		return "", fmt.Errorf("failed to get revision of %s: %w", commit, err)
	}

	return strings.TrimSpace(string(output)), nil
}

func (g *GitClient) Clone(repositoryUrl string, repositoryPath string) error {
	output, err := g.commandRunner.Run("git", "clone", "-c", "core.autocrlf=false", "--depth", "1", repositoryUrl, repositoryPath)
	if err != nil {
		return wrapCloneError(repositoryUrl, output, err)
	}

	return nil
}
