package cst

import "strings"

// Suite is the body of a compound statement.
type Suite interface {
	// Statements returns the body statements. Callers must not assume that
	// modifying the returned slice modifies the suite.
	Statements() []Statement

	codegen(w *strings.Builder)
	clone() Suite
}

// IsNil reports whether s is nil or holds a nil suite pointer.
func IsNil(s Suite) bool {
	switch b := s.(type) {
	case nil:
		return true
	case *IndentedBlock:
		return b == nil
	case *FrozenBlock:
		return b == nil
	case *SimpleSuite:
		return b == nil
	}
	return false
}

// Block is an indented suite whose leading statement can be dropped or
// prepended. Implementations either edit themselves and return the receiver,
// or return a rebuilt block; callers must always use the returned value.
type Block interface {
	Suite
	// Indentation is the absolute indentation of every statement in the block.
	Indentation() string
	Prepend(Statement) Block
	// RemoveFirst drops the first statement and returns it, or nil when the
	// block is empty.
	RemoveFirst() (Statement, Block)
}

// IndentedBlock is a block whose statements live in an ordinary slice that may
// be edited in place.
type IndentedBlock struct {
	// Header is the text after the opening colon through the end of its line.
	Header string
	Indent string
	Body   []Statement
	// Footer holds blank and comment lines between the last statement and the
	// next clause of the enclosing statement.
	Footer string
}

func (b *IndentedBlock) Statements() []Statement {
	if b == nil {
		return nil
	}
	return b.Body
}

func (b *IndentedBlock) Indentation() string {
	if b == nil {
		return ""
	}
	return b.Indent
}

// Prepend inserts s at the front of the body in place.
func (b *IndentedBlock) Prepend(s Statement) Block {
	b.Body = append(b.Body, nil)
	copy(b.Body[1:], b.Body)
	b.Body[0] = s
	return b
}

// RemoveFirst drops the first statement in place.
func (b *IndentedBlock) RemoveFirst() (Statement, Block) {
	if len(b.Body) == 0 {
		return nil, b
	}
	first := b.Body[0]
	copy(b.Body, b.Body[1:])
	b.Body[len(b.Body)-1] = nil
	b.Body = b.Body[:len(b.Body)-1]
	return first, b
}

func (b *IndentedBlock) codegen(w *strings.Builder) {
	if b == nil {
		return
	}
	w.WriteString(b.Header)
	for _, s := range b.Body {
		s.codegen(w, b.Indent)
	}
	w.WriteString(b.Footer)
}

func (b *IndentedBlock) clone() Suite {
	if b == nil {
		return nil
	}
	out := *b
	out.Body = cloneStatements(b.Body)
	return &out
}

// FrozenBlock is a block whose statements cannot be edited. Every change
// produces a new FrozenBlock carrying the same header, indent and footer.
type FrozenBlock struct {
	header string
	indent string
	body   []Statement
	footer string
}

// NewFrozenBlock builds a frozen block. The statement slice is copied.
func NewFrozenBlock(header, indent string, body []Statement, footer string) *FrozenBlock {
	return &FrozenBlock{
		header: header,
		indent: indent,
		body:   append([]Statement(nil), body...),
		footer: footer,
	}
}

func (b *FrozenBlock) Header() string { return b.header }
func (b *FrozenBlock) Footer() string { return b.footer }

func (b *FrozenBlock) Indentation() string {
	if b == nil {
		return ""
	}
	return b.indent
}

// Statements returns a copy of the body.
func (b *FrozenBlock) Statements() []Statement {
	if b == nil {
		return nil
	}
	return append([]Statement(nil), b.body...)
}

// Len reports the number of statements without copying them.
func (b *FrozenBlock) Len() int {
	if b == nil {
		return 0
	}
	return len(b.body)
}

// WithStatements rebuilds the block around a new statement sequence.
func (b *FrozenBlock) WithStatements(body []Statement) *FrozenBlock {
	return NewFrozenBlock(b.header, b.indent, body, b.footer)
}

// Prepend returns a new block with s in front of the existing statements.
func (b *FrozenBlock) Prepend(s Statement) Block {
	body := make([]Statement, 0, len(b.body)+1)
	body = append(body, s)
	body = append(body, b.body...)
	return &FrozenBlock{header: b.header, indent: b.indent, body: body, footer: b.footer}
}

// RemoveFirst returns the first statement and a new block without it.
func (b *FrozenBlock) RemoveFirst() (Statement, Block) {
	if len(b.body) == 0 {
		return nil, b
	}
	return b.body[0], b.WithStatements(b.body[1:])
}

func (b *FrozenBlock) codegen(w *strings.Builder) {
	if b == nil {
		return
	}
	w.WriteString(b.header)
	for _, s := range b.body {
		s.codegen(w, b.indent)
	}
	w.WriteString(b.footer)
}

func (b *FrozenBlock) clone() Suite {
	if b == nil {
		return nil
	}
	return &FrozenBlock{
		header: b.header,
		indent: b.indent,
		body:   cloneStatements(b.body),
		footer: b.footer,
	}
}

// SimpleSuite is a body written on the same line as its header, as in
// `def f(): pass`.
type SimpleSuite struct {
	// Leading is the whitespace between the colon and the body.
	Leading  string
	Body     SmallStatement
	Trailing TrailingWhitespace
}

// Statements returns the body as a single statement line.
func (s *SimpleSuite) Statements() []Statement {
	if s == nil {
		return nil
	}
	return []Statement{&SimpleStatementLine{Body: s.Body, Trailing: s.Trailing}}
}

// Expand converts the one-line body into an indented block at the given
// indentation. The whitespace after the colon is replaced by newline.
func (s *SimpleSuite) Expand(indent, newline string) *IndentedBlock {
	return &IndentedBlock{
		Header: newline,
		Indent: indent,
		Body: []Statement{
			&SimpleStatementLine{Body: s.Body, Trailing: s.Trailing},
		},
	}
}

func (s *SimpleSuite) codegen(w *strings.Builder) {
	if s == nil {
		return
	}
	w.WriteString(s.Leading)
	if s.Body != nil {
		w.WriteString(s.Body.Code())
	}
	w.WriteString(s.Trailing.String())
}

func (s *SimpleSuite) clone() Suite {
	if s == nil {
		return nil
	}
	out := *s
	if s.Body != nil {
		out.Body = s.Body.cloneSmall()
	}
	return &out
}
