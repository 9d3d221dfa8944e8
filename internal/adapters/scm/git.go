package scm

import (
	"fmt"

	"ppdeploy/internal/ports"
)

// Git checks out the application repository. It never updates an existing
// checkout: a leftover install directory means the previous deployment was
// not cleaned and the run must stop.
type Git struct {
	gitClient  *GitClient
	fileSystem ports.FileSystem
}

func ProvideGit(gitClient *GitClient, fileSystem ports.FileSystem) *Git {
	return &Git{
		gitClient:  gitClient,
		fileSystem: fileSystem,
	}
}

func (g *Git) Clone(repositoryUrl string, repositoryPath string) error {
	exists, err := g.fileSystem.FileExists(repositoryPath)
	if err != nil {
		return err
	}
	if exists {
		if g.gitClient.ContainsRepository(repositoryPath) {
			return fmt.Errorf("repository already checked out at %s, rerun with --clean to replace it", repositoryPath)
		}
		return fmt.Errorf("destination %s already exists and is not a repository", repositoryPath)
	}

	if err := g.fileSystem.EnsureDirExists(repositoryPath); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", repositoryPath, err)
	}

	return g.gitClient.Clone(repositoryUrl, repositoryPath)
}

func (g *Git) Revision(repositoryPath string) (string, error) {
	return g.gitClient.GetRevisionForCommit(repositoryPath, "HEAD")
}

var _ ports.Scm = (*Git)(nil)
