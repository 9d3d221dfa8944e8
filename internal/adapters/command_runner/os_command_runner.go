package command_runner

import (
	"errors"
	"os/exec"
	"strings"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/ports"

	"go.uber.org/zap"
)

// OsCommandRunner executes external commands using os/exec.
type OsCommandRunner struct {
	logger *zap.Logger
}

func ProvideOsCommandRunner(logger *zap.Logger) *OsCommandRunner {
	return &OsCommandRunner{logger: logger}
}

func (r *OsCommandRunner) Run(name string, args ...string) ([]byte, error) {
	return r.run(exec.Command(name, args...), ports.Strict)
}

func (r *OsCommandRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return r.run(cmd, ports.Strict)
}

func (r *OsCommandRunner) RunBestEffort(name string, args ...string) []byte {
	output, _ := r.run(exec.Command(name, args...), ports.BestEffort)
	return output
}

func (r *OsCommandRunner) run(cmd *exec.Cmd, mode ports.ExecMode) ([]byte, error) {
	name, args := cmd.Args[0], cmd.Args[1:]
	r.logger.Debug("Running command", zap.String("command", commandLine(name, args)), zap.String("dir", cmd.Dir))

	output, err := cmd.CombinedOutput()
	if err == nil {
		return output, nil
	}

	commandErr := newCommandError(name, args, output, err)
	if mode == ports.BestEffort {
		r.logger.Warn(
			"Ignoring failed command",
			zap.String("command", commandLine(name, args)),
			zap.Int("exit_code", commandErr.ExitCode),
			zap.String("output", strings.TrimSpace(string(output))),
		)
		return output, nil
	}
	return output, commandErr
}

func newCommandError(name string, args []string, output []byte, err error) *domain.CommandError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &domain.CommandError{
		Name:     name,
		Args:     args,
		ExitCode: exitCode,
		Output:   output,
		Err:      err,
	}
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

var _ ports.CommandRunner = (*OsCommandRunner)(nil)
