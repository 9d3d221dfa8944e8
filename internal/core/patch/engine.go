package patch

import (
	"fmt"

	"ppdeploy/internal/ports"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// Engine applies ordered operations to files on disk. A file is read once,
// transformed in memory and written back in a single atomic replace, and only
// when every operation succeeded and the text actually changed.
type Engine struct {
	fileSystem ports.FileSystem
	logger     *zap.Logger
}

func ProvideEngine(fileSystem ports.FileSystem, logger *zap.Logger) *Engine {
	return &Engine{
		fileSystem: fileSystem,
		logger:     logger,
	}
}

func (e *Engine) Apply(path string, operations []Operation) ([]Result, error) {
	original, patched, results, err := e.transform(path, operations)
	if err != nil {
		return results, err
	}

	if patched == original {
		e.logger.Debug("File already patched", zap.String("file", path))
		return results, nil
	}

	if err := e.fileSystem.WriteFile(path, []byte(patched), ports.ReadAllWriteOwner); err != nil {
		return results, fmt.Errorf("failed to write patched %s: %w", path, err)
	}
	e.logger.Info("Patched file", zap.String("file", path), zap.Int("operations", len(operations)))

	return results, nil
}

// Diff reports, as a unified diff, what Apply would write. The file is not
// modified. An empty diff means the file is already fully patched.
func (e *Engine) Diff(path string, operations []Operation) (string, []Result, error) {
	original, patched, results, err := e.transform(path, operations)
	if err != nil {
		return "", results, err
	}
	if patched == original {
		return "", results, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(patched),
		FromFile: path,
		ToFile:   path + " (patched)",
		Context:  3,
	})
	if err != nil {
		return "", results, fmt.Errorf("failed to diff %s: %w", path, err)
	}
	return diff, results, nil
}

func (e *Engine) transform(path string, operations []Operation) (string, string, []Result, error) {
	content, err := e.fileSystem.ReadFile(path)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	original := string(content)

	patched, results, err := applyText(path, original, operations)
	for _, result := range results {
		e.logger.Debug(
			"Patch operation",
			zap.String("file", path),
			zap.String("operation", result.Operation),
			zap.Stringer("status", result.Status),
			zap.Int("matches", result.Matches),
		)
	}
	return original, patched, results, err
}

// ApplyText runs operations against text in order and returns the transformed
// text. On error the returned text is the unmodified input.
func ApplyText(text string, operations []Operation) (string, []Result, error) {
	return applyText("", text, operations)
}

func applyText(file string, text string, operations []Operation) (string, []Result, error) {
	results := make([]Result, 0, len(operations))
	current := text

	for _, op := range operations {
		next, edits, status, err := op.apply(current)
		results = append(results, Result{
			Operation: op.Name,
			File:      file,
			Status:    status,
			Matches:   edits,
		})
		if err != nil {
			return text, results, &OperationError{Operation: op.Name, File: file, Err: err}
		}
		current = next
	}

	return current, results, nil
}
