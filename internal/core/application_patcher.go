package core

import (
	"strings"

	"ppdeploy/internal/core/domain"
	"ppdeploy/internal/core/patch"

	"go.uber.org/zap"
)

// ApplicationPatcher runs the patch sets against a checked out application.
// Each method stops at the first file that fails; files already written stay
// written and are complete on their own.
type ApplicationPatcher struct {
	engine *patch.Engine
	logger *zap.Logger
}

func ProvideApplicationPatcher(engine *patch.Engine, logger *zap.Logger) *ApplicationPatcher {
	return &ApplicationPatcher{
		engine: engine,
		logger: logger,
	}
}

func (p *ApplicationPatcher) PatchSource(config domain.DeploymentConfig) ([]patch.Result, error) {
	return p.engine.Apply(config.EntryPath(), patch.SourceOperations(config))
}

func (p *ApplicationPatcher) NormalizeBindAddress(config domain.DeploymentConfig) ([]patch.Result, error) {
	return p.engine.Apply(config.EntryPath(), patch.BindAddressOperations())
}

func (p *ApplicationPatcher) PatchTemplates(config domain.DeploymentConfig) ([]patch.Result, error) {
	var all []patch.Result
	for _, path := range config.TemplatePaths() {
		results, err := p.engine.Apply(path, patch.TemplateOperations())
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// Patch runs the source, bind address and template passes in that order.
func (p *ApplicationPatcher) Patch(config domain.DeploymentConfig) ([]patch.Result, error) {
	var all []patch.Result
	for _, pass := range []func(domain.DeploymentConfig) ([]patch.Result, error){
		p.PatchSource,
		p.NormalizeBindAddress,
		p.PatchTemplates,
	} {
		results, err := pass(config)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

// Diff reports what Patch would change without writing anything.
func (p *ApplicationPatcher) Diff(config domain.DeploymentConfig) (string, []patch.Result, error) {
	var diffs strings.Builder
	var all []patch.Result

	sourceOperations := append(patch.SourceOperations(config), patch.BindAddressOperations()...)
	diff, results, err := p.engine.Diff(config.EntryPath(), sourceOperations)
	all = append(all, results...)
	if err != nil {
		return "", all, err
	}
	diffs.WriteString(diff)

	for _, path := range config.TemplatePaths() {
		diff, results, err := p.engine.Diff(path, patch.TemplateOperations())
		all = append(all, results...)
		if err != nil {
			return "", all, err
		}
		diffs.WriteString(diff)
	}

	p.logger.Debug("Computed patch diff", zap.Int("results", len(all)), zap.Int("bytes", diffs.Len()))
	return diffs.String(), all, nil
}
