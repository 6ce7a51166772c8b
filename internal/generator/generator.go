// Package generator produces the text of new docstrings.
package generator

import (
	"context"
	"strings"

	"github.com/getlawrence/autodocs/internal/cst"
)

// DefaultPlaceholder is inserted when no template is configured.
const DefaultPlaceholder = "PLACEHOLDER"

// Request identifies the definition that needs a docstring.
type Request struct {
	// Path holds the names of the enclosing definitions and the definition
	// itself, outermost first.
	Path []string `json:"path"`
	Name string   `json:"name"`
	Kind cst.Kind `json:"kind"`
	// Source is the definition as currently printed, body included.
	Source string `json:"source,omitempty"`
	// Existing is the docstring being replaced, if any.
	Existing string `json:"existing,omitempty"`
	Language string `json:"language,omitempty"`
	File     string `json:"file,omitempty"`
}

// QualifiedName returns the dotted path, e.g. "Outer.method".
func (r Request) QualifiedName() string {
	return strings.Join(r.Path, ".")
}

// Generator returns docstring text for a definition. The text is plain prose;
// quoting and indentation are applied by the caller.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Constant returns a generator that always answers text.
func Constant(text string) Generator {
	return Func(func(context.Context, Request) (string, error) {
		return text, nil
	})
}
