package ports

// PythonEnvironment manages the interpreter and virtualenv the monolith runs in.
type PythonEnvironment interface {
	// Version returns the "major.minor" version reported by the interpreter.
	Version(interpreter string) (string, error)
	CreateVirtualenv(interpreter string, venvDir string) error
	InstallRequirements(venvDir string, requirementsFile string) error
}

// SyntaxChecker compiles a source file with the given interpreter without running it.
type SyntaxChecker interface {
	Check(interpreter string, path string) error
}
