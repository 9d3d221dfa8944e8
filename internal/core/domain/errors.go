package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPreconditionNotMet means an expected anchor was absent: the target
	// file no longer has the shape the patch set was written for.
	ErrPreconditionNotMet = errors.New("precondition not met")
	// ErrAmbiguousTarget means zero or several matches where exactly one was required.
	ErrAmbiguousTarget       = errors.New("ambiguous target")
	ErrValidationFailed      = errors.New("validation failed")
	ErrEnvironmentMismatch   = errors.New("environment mismatch")
	ErrExternalCommandFailed = errors.New("external command failed")
)

// CommandError is returned by strict command executions that exit non-zero or
// could not be started.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *CommandError) Error() string {
	command := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if len(e.Output) == 0 {
		return fmt.Sprintf("command '%s' failed: %v", command, e.Err)
	}
	return fmt.Sprintf("command '%s' failed: %v\n%s", command, e.Err, strings.TrimRight(string(e.Output), "\n"))
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrExternalCommandFailed, e.Err}
}
