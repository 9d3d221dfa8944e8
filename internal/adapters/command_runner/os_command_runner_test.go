package command_runner

import (
	"errors"
	"testing"

	"ppdeploy/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOsCommandRunner_RunReturnsCombinedOutput(t *testing.T) {
	sut := ProvideOsCommandRunner(zap.NewNop())

	output, err := sut.Run("sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Contains(t, string(output), "out")
	assert.Contains(t, string(output), "err")
}

func TestOsCommandRunner_RunFailureIsCommandError(t *testing.T) {
	sut := ProvideOsCommandRunner(zap.NewNop())

	output, err := sut.Run("sh", "-c", "echo broken; exit 3")

	require.ErrorIs(t, err, domain.ErrExternalCommandFailed)
	var commandErr *domain.CommandError
	require.True(t, errors.As(err, &commandErr))
	assert.Equal(t, "sh", commandErr.Name)
	assert.Equal(t, 3, commandErr.ExitCode)
	assert.Equal(t, "broken\n", string(output))
	assert.Contains(t, err.Error(), "broken")
}

func TestOsCommandRunner_RunMissingBinary(t *testing.T) {
	sut := ProvideOsCommandRunner(zap.NewNop())

	_, err := sut.Run("ppdeploy-no-such-binary")

	require.ErrorIs(t, err, domain.ErrExternalCommandFailed)
	var commandErr *domain.CommandError
	require.True(t, errors.As(err, &commandErr))
	assert.Equal(t, -1, commandErr.ExitCode)
}

func TestOsCommandRunner_RunInDir(t *testing.T) {
	dir := t.TempDir()
	sut := ProvideOsCommandRunner(zap.NewNop())

	output, err := sut.RunInDir(dir, "pwd")

	require.NoError(t, err)
	assert.Contains(t, string(output), dir)
}

func TestOsCommandRunner_RunBestEffortSwallowsFailure(t *testing.T) {
	sut := ProvideOsCommandRunner(zap.NewNop())

	output := sut.RunBestEffort("sh", "-c", "echo partial; exit 1")

	assert.Equal(t, "partial\n", string(output))
}
