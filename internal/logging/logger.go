package logging

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbose selects debug logging. Without it only warnings and errors reach
// stderr so they do not interleave with progress output.
type Verbose bool

// ProvideLogger builds the process logger. Every entry carries a run id so
// the log lines of one deployment can be grepped out of a shared journal.
func ProvideLogger(verbose Verbose) (*zap.Logger, func(), error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build(zap.Fields(zap.String("run_id", uuid.NewString())))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}
