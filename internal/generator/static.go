package generator

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/getlawrence/autodocs/internal/templates"
)

// Static renders a fixed template for every definition, so
// "TODO: document {{ .Name }}" is valid.
type Static struct {
	tmpl *template.Template
}

// templateData is what a static template sees. Every field is a plain string
// so sprig functions such as title or upper apply directly.
type templateData struct {
	Name          string
	QualifiedName string
	Kind          string
	Path          []string
	Source        string
	Existing      string
	Language      string
	File          string
}

// NewStatic compiles text. An empty text yields DefaultPlaceholder.
func NewStatic(text string) (*Static, error) {
	if text == "" {
		text = DefaultPlaceholder
	}
	tmpl, err := templates.Compile("placeholder", text)
	if err != nil {
		return nil, err
	}
	return &Static{tmpl: tmpl}, nil
}

func (s *Static) Generate(_ context.Context, req Request) (string, error) {
	data := templateData{
		Name:          req.Name,
		QualifiedName: req.QualifiedName(),
		Kind:          string(req.Kind),
		Path:          req.Path,
		Source:        req.Source,
		Existing:      req.Existing,
		Language:      req.Language,
		File:          req.File,
	}
	var b strings.Builder
	if err := s.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render placeholder: %w", err)
	}
	return b.String(), nil
}
