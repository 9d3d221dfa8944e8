package ports

// ExecMode decides what happens when a command exits non-zero.
type ExecMode int

const (
	// Strict returns a *domain.CommandError for non-zero exits.
	Strict ExecMode = iota
	// BestEffort logs the failure and carries on.
	BestEffort
)

// CommandRunner executes external commands and returns their combined output.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
	RunInDir(dir, name string, args ...string) ([]byte, error)
	// RunBestEffort executes a command in BestEffort mode. Failures are never
	// returned to the caller.
	RunBestEffort(name string, args ...string) []byte
}
