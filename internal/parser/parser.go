// Package parser turns Python source into a lossless cst.Module.
//
// Tree-sitter locates statements, definition names, colons and blocks; the
// text between those anchors is sliced verbatim into the tree so that
// Module.Code reproduces the input exactly.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getlawrence/autodocs/internal/cst"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrNotLossless is returned when the built tree does not print back to the
// exact source. It indicates a construct the builder does not understand.
var ErrNotLossless = errors.New("parsed tree does not reproduce the source")

// ParseError describes source the parser rejected.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

const defaultIndentUnit = "    "

// Parser parses source with a tree-sitter grammar. It holds no per-parse
// state and is safe for concurrent use.
type Parser struct {
	language *sitter.Language
}

// New returns a parser for the given grammar. A nil grammar selects Python.
func New(language *sitter.Language) *Parser {
	if language == nil {
		language = python.GetLanguage()
	}
	return &Parser{language: language}
}

// Parse builds the lossless tree for src.
func (p *Parser) Parse(ctx context.Context, src []byte) (*cst.Module, error) {
	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(p.language)

	tree, err := ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	defer tree.Close()

	b := &builder{src: string(src)}
	root := tree.RootNode()
	if root.HasError() {
		return nil, b.syntaxError(root)
	}

	mod, err := b.module(root)
	if err != nil {
		return nil, err
	}
	if mod.Code() != b.src {
		return nil, ErrNotLossless
	}
	return mod, nil
}

// ParseString is a convenience wrapper around Parse.
func (p *Parser) ParseString(ctx context.Context, src string) (*cst.Module, error) {
	return p.Parse(ctx, []byte(src))
}

func (b *builder) module(root *sitter.Node) (*cst.Module, error) {
	body, end, err := b.body(statementNodes(root), 0, "")
	if err != nil {
		return nil, err
	}
	mod := &cst.Module{
		Body:    body,
		Footer:  b.src[end:],
		Newline: detectNewline(b.src),
	}
	mod.IndentUnit = detectIndentUnit(mod.Body)
	return mod, nil
}

func (b *builder) syntaxError(root *sitter.Node) error {
	n := findError(root)
	if n == nil {
		n = root
	}
	msg := "unexpected " + n.Type()
	if n.IsMissing() {
		msg = "missing " + n.Type()
	}
	return b.errorAt(int(n.StartByte()), msg)
}

func (b *builder) errorAt(off int, msg string) *ParseError {
	if off > len(b.src) {
		off = len(b.src)
	}
	return &ParseError{
		Line:   strings.Count(b.src[:off], "\n") + 1,
		Column: off - b.lineStart(off) + 1,
		Msg:    msg,
	}
}

func findError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !(c.HasError() || c.IsMissing()) {
			continue
		}
		if found := findError(c); found != nil {
			return found
		}
	}
	return nil
}

func detectNewline(src string) string {
	crlf := strings.Count(src, "\r\n")
	if crlf > 0 && crlf*2 >= strings.Count(src, "\n") {
		return "\r\n"
	}
	return "\n"
}

// detectIndentUnit returns the indentation of the first module level block.
func detectIndentUnit(body []cst.Statement) string {
	for _, s := range body {
		var suites []cst.Suite
		switch st := s.(type) {
		case cst.Definition:
			suites = append(suites, st.Suite())
		case *cst.CompoundStatement:
			for _, cl := range st.Clauses {
				suites = append(suites, cl.Body)
			}
		}
		for _, su := range suites {
			if blk, ok := su.(cst.Block); ok && blk.Indentation() != "" {
				return blk.Indentation()
			}
		}
	}
	return defaultIndentUnit
}
