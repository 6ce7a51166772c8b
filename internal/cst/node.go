// Package cst is a lossless concrete syntax tree for Python source.
//
// Every byte of a parsed file is held by exactly one field of one node, so
// printing an unedited tree reproduces the input. Only class and function
// definitions are modelled structurally; any other statement is kept as the
// verbatim text it was parsed from.
//
// Statement bodies come in two shapes. IndentedBlock exposes its statements as
// a plain slice that may be edited in place; it backs function bodies and the
// bodies of if/for/while/try/with/match statements. FrozenBlock hides its
// statements behind copying accessors and must be rebuilt for every edit; it
// backs class bodies. Both satisfy Suite, so callers that only prepend or drop
// the leading statement never need to know which one they hold.
package cst

import "strings"

// Statement is a single logical line or compound statement inside a body.
type Statement interface {
	// LeadingLines returns the blank and comment lines printed before the
	// statement's own indentation.
	LeadingLines() string

	codegen(w *strings.Builder, indent string)
	clone() Statement
}

// SmallStatement is the content of a simple statement line, without the
// block indentation and without trailing whitespace, comment or newline.
type SmallStatement interface {
	Code() string
	cloneSmall() SmallStatement
}

// Expression is the value of an expression statement.
type Expression interface {
	Code() string
}

// TrailingWhitespace is what follows a statement on its last line.
type TrailingWhitespace struct {
	Whitespace string
	Comment    string
	Newline    string
}

func (t TrailingWhitespace) String() string {
	return t.Whitespace + t.Comment + t.Newline
}

// Module is the root of a parsed file.
type Module struct {
	Body []Statement
	// Footer holds blank and comment lines after the last statement.
	Footer string
	// Newline is the line terminator the file predominantly uses.
	Newline string
	// IndentUnit is the indentation added by one nesting level.
	IndentUnit string
}

// Code prints the module back to source text.
func (m *Module) Code() string {
	var w strings.Builder
	for _, s := range m.Body {
		s.codegen(&w, "")
	}
	w.WriteString(m.Footer)
	return w.String()
}

// Clone returns a deep copy of the module. Edits made to the copy, including
// in-place edits of IndentedBlock bodies, are never visible in m.
func (m *Module) Clone() *Module {
	out := *m
	out.Body = cloneStatements(m.Body)
	return &out
}

// SimpleStatementLine is one physical line (or a run of continued lines)
// holding one or more small statements.
type SimpleStatementLine struct {
	Leading  string
	Body     SmallStatement
	Trailing TrailingWhitespace
}

func (s *SimpleStatementLine) LeadingLines() string { return s.Leading }

func (s *SimpleStatementLine) codegen(w *strings.Builder, indent string) {
	w.WriteString(s.Leading)
	w.WriteString(indent)
	if s.Body != nil {
		w.WriteString(s.Body.Code())
	}
	w.WriteString(s.Trailing.String())
}

func (s *SimpleStatementLine) clone() Statement {
	out := *s
	if s.Body != nil {
		out.Body = s.Body.cloneSmall()
	}
	return &out
}

// Expr is a statement made of a single expression.
type Expr struct {
	Value Expression
}

func (e *Expr) Code() string {
	if e.Value == nil {
		return ""
	}
	return e.Value.Code()
}

func (e *Expr) cloneSmall() SmallStatement {
	out := *e
	return &out
}

// RawStatement is any small statement (or semicolon separated run of them)
// kept verbatim.
type RawStatement struct {
	Text string
}

func (r *RawStatement) Code() string { return r.Text }

func (r *RawStatement) cloneSmall() SmallStatement {
	out := *r
	return &out
}

// Sequence is a string literal followed on the same line by more small
// statements, as in `"""doc"""; x = 1`. Tail keeps the rest verbatim.
type Sequence struct {
	Head *Expr
	// Sep is the semicolon with the whitespace around it.
	Sep  string
	Tail string
}

func (s *Sequence) Code() string { return s.Head.Code() + s.Sep + s.Tail }

func (s *Sequence) cloneSmall() SmallStatement {
	out := *s
	out.Head = s.Head.cloneSmall().(*Expr)
	return &out
}

// SimpleString is a single string literal including its prefix and quotes,
// for example `r"""text"""`. Lpar and Rpar hold any parentheses around it.
type SimpleString struct {
	Lpar  string
	Value string
	Rpar  string
}

func (s *SimpleString) Code() string { return s.Lpar + s.Value + s.Rpar }

// RawExpression is any other expression kept verbatim.
type RawExpression struct {
	Text string
}

func (r *RawExpression) Code() string { return r.Text }

// Kind tells classes and functions apart.
type Kind string

const (
	KindClass    Kind = "class"
	KindFunction Kind = "function"
)

// Definition is a class or function definition.
type Definition interface {
	Statement
	Identifier() string
	Kind() Kind
	Suite() Suite
	// WithSuite returns the definition with its body replaced. Whether the
	// receiver is modified or copied depends on the concrete type.
	WithSuite(Suite) Definition
}

// FunctionDef is a (possibly async, possibly decorated) function definition.
type FunctionDef struct {
	Leading string
	// Header runs from the first decorator, or the def keyword, through the
	// colon that opens the body.
	Header string
	Name   string
	Body   Suite
}

func (f *FunctionDef) LeadingLines() string { return f.Leading }
func (f *FunctionDef) Identifier() string   { return f.Name }
func (f *FunctionDef) Kind() Kind           { return KindFunction }
func (f *FunctionDef) Suite() Suite         { return f.Body }

// WithSuite replaces the body in place and returns f.
func (f *FunctionDef) WithSuite(s Suite) Definition {
	f.Body = s
	return f
}

func (f *FunctionDef) codegen(w *strings.Builder, indent string) {
	w.WriteString(f.Leading)
	w.WriteString(indent)
	w.WriteString(f.Header)
	if !IsNil(f.Body) {
		f.Body.codegen(w)
	}
}

func (f *FunctionDef) clone() Statement {
	out := *f
	out.Body = cloneSuite(f.Body)
	return &out
}

// ClassDef is a (possibly decorated) class definition. It is treated as a
// value: WithSuite never modifies the receiver.
type ClassDef struct {
	Leading string
	Header  string
	Name    string
	Body    Suite
}

func (c *ClassDef) LeadingLines() string { return c.Leading }
func (c *ClassDef) Identifier() string   { return c.Name }
func (c *ClassDef) Kind() Kind           { return KindClass }
func (c *ClassDef) Suite() Suite         { return c.Body }

// WithSuite returns a copy of c with its body replaced.
func (c *ClassDef) WithSuite(s Suite) Definition {
	out := *c
	out.Body = s
	return &out
}

func (c *ClassDef) codegen(w *strings.Builder, indent string) {
	w.WriteString(c.Leading)
	w.WriteString(indent)
	w.WriteString(c.Header)
	if !IsNil(c.Body) {
		c.Body.codegen(w)
	}
}

func (c *ClassDef) clone() Statement {
	out := *c
	out.Body = cloneSuite(c.Body)
	return &out
}

// Clause is one header/body pair of a compound statement, such as the elif
// part of an if statement.
type Clause struct {
	// Header of the first clause starts after the statement indentation. Later
	// headers start at the beginning of their line and include everything
	// between the previous body and their colon.
	Header string
	Body   Suite
}

// CompoundStatement is any compound statement other than a definition.
type CompoundStatement struct {
	Leading string
	Clauses []Clause
}

func (c *CompoundStatement) LeadingLines() string { return c.Leading }

func (c *CompoundStatement) codegen(w *strings.Builder, indent string) {
	w.WriteString(c.Leading)
	w.WriteString(indent)
	for _, cl := range c.Clauses {
		w.WriteString(cl.Header)
		if !IsNil(cl.Body) {
			cl.Body.codegen(w)
		}
	}
}

func (c *CompoundStatement) clone() Statement {
	out := *c
	out.Clauses = make([]Clause, len(c.Clauses))
	for i, cl := range c.Clauses {
		out.Clauses[i] = Clause{Header: cl.Header, Body: cloneSuite(cl.Body)}
	}
	return &out
}

// Code prints a single statement at the given indentation.
func Code(s Statement, indent string) string {
	var w strings.Builder
	s.codegen(&w, indent)
	return w.String()
}

func cloneStatements(in []Statement) []Statement {
	if in == nil {
		return nil
	}
	out := make([]Statement, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}

func cloneSuite(s Suite) Suite {
	if IsNil(s) {
		return nil
	}
	return s.clone()
}
