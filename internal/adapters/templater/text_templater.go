package templater

import (
	"fmt"
	"strings"
	"text/template"

	"ppdeploy/internal/ports"
)

var _ ports.Templater = (*TextTemplater)(nil)

// TextTemplater renders unit files and Dockerfiles. Unknown keys are errors.
type TextTemplater struct{}

func ProvideTextTemplater() ports.Templater {
	return &TextTemplater{}
}

func (t TextTemplater) Render(templateText string, templateName string, values map[string]interface{}) (string, error) {
	tmpl, err := template.New(templateName).Option("missingkey=error").Parse(templateText)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, values); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	return result.String(), nil
}
