package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// LanguagePlugin describes a language autodocs can rewrite.
type LanguagePlugin interface {
	// Core identifiers
	ID() string          // canonical id used in config keys (e.g., "python")
	DisplayName() string // human-readable name (e.g., "Python")

	// EnryName is the name go-enry reports for files of this language.
	EnryName() string

	// Parsing
	TreeSitterLanguage() *sitter.Language
	FileExtensions() []string // default extensions, overridable in config
}
