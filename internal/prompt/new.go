package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed default_template.txt
var defaultTemplate string

type implBuilder struct {
	template string
}

// New creates a Builder using the template file at templatePath, or the
// built-in study-summary template when templatePath is empty.
func New(templatePath string) (Builder, error) {
	if templatePath == "" {
		return NewWithTemplate(defaultTemplate)
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return NewWithTemplate(string(data))
}

// NewWithTemplate creates a Builder around an in-memory template.
func NewWithTemplate(template string) (Builder, error) {
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("prompt template is empty")
	}
	return &implBuilder{template: template}, nil
}

// DefaultTemplate returns the built-in template.
func DefaultTemplate() string {
	return defaultTemplate
}
