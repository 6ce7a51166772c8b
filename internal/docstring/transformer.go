package docstring

import (
	"context"
	"fmt"
	"strings"

	"github.com/getlawrence/autodocs/internal/cst"
	"github.com/getlawrence/autodocs/internal/generator"
)

// Action says what the transformer did to a definition.
type Action string

const (
	ActionInsert  Action = "insert"
	ActionReplace Action = "replace"
)

// Change describes one docstring written by the transformer.
type Change struct {
	Path   QualifiedName
	Kind   cst.Kind
	Action Action
	// Previous is the docstring that was replaced, if any.
	Previous string
	Text     string
}

// ConfirmFunc is asked before each change is applied. Returning false leaves
// the definition as it was.
type ConfirmFunc func(ctx context.Context, c Change) (bool, error)

// Options configures a Transformer.
type Options struct {
	// Update replaces docstrings that already exist.
	Update bool
	// Generator supplies docstring text. Nil inserts DefaultPlaceholder.
	Generator generator.Generator
	// Quote is the triple quote delimiter of new docstrings.
	Quote string
	// Newline and IndentUnit default to what the parser detected.
	Newline    string
	IndentUnit string
	Language   string
	File       string
	Confirm    ConfirmFunc
}

// Transformer gives every class and function in a module a docstring.
type Transformer struct {
	reg  *Registry
	opts Options
	gen  generator.Generator

	stack   QualifiedName
	seen    map[string]int
	changes []Change
	newline string
	unit    string
}

func NewTransformer(reg *Registry, opts Options) *Transformer {
	gen := opts.Generator
	if gen == nil {
		gen = generator.Constant(generator.DefaultPlaceholder)
	}
	if reg == nil {
		reg = NewRegistry()
	}
	return &Transformer{reg: reg, opts: opts, gen: gen}
}

// Transform returns a rewritten copy of m; m itself is never modified. On
// error no partial result is returned.
func (t *Transformer) Transform(ctx context.Context, m *cst.Module) (*cst.Module, error) {
	t.stack = t.stack[:0]
	t.seen = make(map[string]int)
	t.changes = nil
	t.newline = firstNonEmpty(t.opts.Newline, m.Newline, "\n")
	t.unit = firstNonEmpty(t.opts.IndentUnit, m.IndentUnit, "    ")

	out := m.Clone()
	body, _, err := t.statements(ctx, out.Body, "")
	if err != nil {
		t.changes = nil
		return nil, err
	}
	if len(t.stack) != 0 {
		t.changes = nil
		return nil, fmt.Errorf("%w: %s", ErrUnbalancedTraversal, t.stack)
	}
	out.Body = body
	return out, nil
}

// Changes returns the changes made by the last successful Transform.
func (t *Transformer) Changes() []Change {
	return append([]Change(nil), t.changes...)
}

// Transform is shorthand for NewTransformer(reg, opts).Transform(ctx, m).
func Transform(ctx context.Context, m *cst.Module, reg *Registry, opts Options) (*cst.Module, error) {
	return NewTransformer(reg, opts).Transform(ctx, m)
}

// statements rewrites stmts in place and reports whether anything changed.
func (t *Transformer) statements(ctx context.Context, stmts []cst.Statement, indent string) ([]cst.Statement, bool, error) {
	changed := false
	for i, s := range stmts {
		switch st := s.(type) {
		case cst.Definition:
			def, ch, err := t.definition(ctx, st, indent)
			if err != nil {
				return nil, false, err
			}
			if ch {
				stmts[i] = def
				changed = true
			}
		case *cst.CompoundStatement:
			for k := range st.Clauses {
				body, ch, err := t.suite(ctx, st.Clauses[k].Body)
				if err != nil {
					return nil, false, err
				}
				if ch {
					st.Clauses[k].Body = body
					changed = true
				}
			}
		}
	}
	return stmts, changed, nil
}

// suite descends into the statements of a body.
func (t *Transformer) suite(ctx context.Context, s cst.Suite) (cst.Suite, bool, error) {
	switch b := s.(type) {
	case *cst.IndentedBlock:
		if b == nil {
			return s, false, nil
		}
		body, ch, err := t.statements(ctx, b.Body, b.Indent)
		if err != nil {
			return nil, false, err
		}
		b.Body = body
		return b, ch, nil
	case *cst.FrozenBlock:
		if b == nil {
			return s, false, nil
		}
		body, ch, err := t.statements(ctx, b.Statements(), b.Indentation())
		if err != nil {
			return nil, false, err
		}
		if !ch {
			return b, false, nil
		}
		return b.WithStatements(body), true, nil
	}
	return s, false, nil
}

func (t *Transformer) definition(ctx context.Context, def cst.Definition, indent string) (cst.Definition, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	t.stack = append(t.stack, def.Identifier())
	defer func() { t.stack = t.stack[:len(t.stack)-1] }()

	path := append(QualifiedName(nil), t.stack...)
	key := path.Key()
	entry, _ := t.reg.Occurrence(path, t.seen[key])
	t.seen[key]++

	// Children first so a rebuilt body already holds their docstrings.
	body, changed, err := t.suite(ctx, def.Suite())
	if err != nil {
		return nil, false, err
	}
	if changed {
		def = def.WithSuite(body)
	}

	if entry.Exists() && !t.opts.Update {
		return def, changed, nil
	}
	if cst.IsNil(body) {
		return nil, false, fmt.Errorf("%s %s: %w", def.Kind(), path, ErrStructuralMismatch)
	}

	blockIndent := indent + t.unit
	if blk, ok := body.(cst.Block); ok {
		blockIndent = blk.Indentation()
	}

	text, err := t.gen.Generate(ctx, generator.Request{
		Path:     path,
		Name:     def.Identifier(),
		Kind:     def.Kind(),
		Source:   strings.TrimPrefix(cst.Code(def, indent), def.LeadingLines()+indent),
		Existing: entry.Text,
		Language: t.opts.Language,
		File:     t.opts.File,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate docstring for %s: %w", path, err)
	}

	// Only a statement that really is a docstring is ever removed.
	replace := entry.Exists() && cst.HasDocstring(body)
	change := Change{Path: path, Kind: def.Kind(), Action: ActionInsert, Text: text}
	if replace {
		change.Action = ActionReplace
		change.Previous = entry.Text
	}

	if t.opts.Confirm != nil {
		ok, err := t.opts.Confirm(ctx, change)
		if err != nil {
			return nil, false, fmt.Errorf("confirmation for %s failed: %w", path, err)
		}
		if !ok {
			return def, changed, nil
		}
	}

	doc := BuildDocstring(text, blockIndent, Style{Quote: t.opts.Quote, Newline: t.newline})
	updated, err := prependDocstring(body, doc, replace, blockIndent, t.newline)
	if err != nil {
		return nil, false, fmt.Errorf("%s %s: %w", def.Kind(), path, err)
	}
	t.changes = append(t.changes, change)
	return def.WithSuite(updated), true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
