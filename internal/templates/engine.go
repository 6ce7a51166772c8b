package templates

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed *.tmpl
var templateFS embed.FS

// DocstringPromptData contains all data needed for docstring prompt generation
type DocstringPromptData struct {
	Language      string `json:"language"`
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	QualifiedName string `json:"qualified_name"`
	File          string `json:"file,omitempty"`
	Source        string `json:"source"`
	Existing      string `json:"existing,omitempty"`
}

// TemplateEngine handles template loading and execution
type TemplateEngine struct {
	templates map[string]*template.Template
}

// NewTemplateEngine creates a new template engine
func NewTemplateEngine() (*TemplateEngine, error) {
	engine := &TemplateEngine{
		templates: make(map[string]*template.Template),
	}

	if err := engine.loadTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return engine, nil
}

// GenerateDocstringPrompt creates the prompt asking for one docstring
func (e *TemplateEngine) GenerateDocstringPrompt(data DocstringPromptData) (string, error) {
	return e.execute("docstring_prompt", data)
}

// SystemPrompt returns the instructions sent ahead of every prompt
func (e *TemplateEngine) SystemPrompt() (string, error) {
	return e.execute("system_prompt", nil)
}

func (e *TemplateEngine) execute(name string, data interface{}) (string, error) {
	tmpl, exists := e.templates[name]
	if !exists {
		return "", fmt.Errorf("%s template not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%s template execution failed: %w", name, err)
	}

	return buf.String(), nil
}

func (e *TemplateEngine) loadTemplates() error {
	entries, err := templateFS.ReadDir(".")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := templateFS.ReadFile(entry.Name())
		if err != nil {
			return err
		}

		key := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := Compile(key, string(content))
		if err != nil {
			return err
		}
		e.templates[key] = tmpl
	}

	return nil
}

// GetAvailableTemplates returns all available template keys
func (e *TemplateEngine) GetAvailableTemplates() []string {
	keys := make([]string, 0, len(e.templates))
	for key := range e.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Compile parses a user supplied template with the sprig function set.
func Compile(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}
