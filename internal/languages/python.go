package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"
)

// PythonPlugin supplies the Python grammar and file conventions.
type PythonPlugin struct{}

func NewPythonPlugin() *PythonPlugin {
	return &PythonPlugin{}
}

func (p *PythonPlugin) ID() string                           { return "python" }
func (p *PythonPlugin) DisplayName() string                  { return "Python" }
func (p *PythonPlugin) EnryName() string                     { return "Python" }
func (p *PythonPlugin) TreeSitterLanguage() *sitter.Language { return tspython.GetLanguage() }
func (p *PythonPlugin) FileExtensions() []string             { return []string{".py", ".pyw", ".pyi"} }
