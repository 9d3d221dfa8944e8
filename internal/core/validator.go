package core

import (
	"fmt"
	"strings"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/core/patch"
	"ppdeploy/internal/ports"

	"go.uber.org/zap"
)

// Validator re-reads the patched files from disk and decides whether the
// application may be started. Every failure wraps domain.ErrValidationFailed.
type Validator struct {
	fileSystem    ports.FileSystem
	syntaxChecker ports.SyntaxChecker
	logger        *zap.Logger
}

func ProvideValidator(fileSystem ports.FileSystem, syntaxChecker ports.SyntaxChecker, logger *zap.Logger) *Validator {
	return &Validator{
		fileSystem:    fileSystem,
		syntaxChecker: syntaxChecker,
		logger:        logger,
	}
}

// Validate checks the entry file and templates. interpreter compiles the entry
// file unless the config skips the syntax check.
func (v *Validator) Validate(config domain.DeploymentConfig, interpreter string) error {
	entryPath := config.EntryPath()
	content, err := v.fileSystem.ReadFile(entryPath)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %w", domain.ErrValidationFailed, entryPath, err)
	}
	source := string(content)

	if !strings.Contains(source, patch.TeamIDConstantMarker) {
		return fmt.Errorf("%w: %s does not define %s", domain.ErrValidationFailed, entryPath, patch.TeamIDConstantMarker)
	}

	if patch.ThreadedRenderCalls(source, config.Templates) == 0 {
		if config.Strict {
			return fmt.Errorf("%w: no render_template call for %s passes %s in %s",
				domain.ErrValidationFailed, strings.Join(config.Templates, ", "), patch.TeamIDArgument, entryPath)
		}
		v.logger.Warn(
			"No render_template call passes the team id; pages will show the template default",
			zap.String("file", entryPath),
			zap.Strings("templates", config.Templates),
		)
	}

	if !strings.Contains(source, patch.OwnerGlobal) {
		if config.Strict {
			return fmt.Errorf("%w: %s does not expose APP_OWNER to the templates", domain.ErrValidationFailed, entryPath)
		}
		v.logger.Warn(
			"APP_OWNER is not a template global; pages will show the default owner",
			zap.String("file", entryPath),
		)
	}

	for _, path := range config.TemplatePaths() {
		template, err := v.fileSystem.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: failed to read %s: %w", domain.ErrValidationFailed, path, err)
		}
		if !strings.Contains(string(template), patch.TitleBlock) {
			return fmt.Errorf("%w: %s does not contain the expected title block", domain.ErrValidationFailed, path)
		}
	}

	if config.SkipSyntaxCheck {
		v.logger.Debug("Skipping syntax check", zap.String("file", entryPath))
		return nil
	}
	if err := v.syntaxChecker.Check(interpreter, entryPath); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidationFailed, err)
	}

	return nil
}
