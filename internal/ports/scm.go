package ports

type Scm interface {
	// Clone checks out repositoryUrl into repositoryPath, which must not exist yet.
	Clone(repositoryUrl string, repositoryPath string) error
	// Revision returns the commit checked out at repositoryPath.
	Revision(repositoryPath string) (string, error)
}
