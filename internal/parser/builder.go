package parser

import (
	"strings"

	"github.com/getlawrence/autodocs/internal/cst"
	sitter "github.com/smacker/go-tree-sitter"
)

// Named nodes that may appear between statements without being statements.
var extraNodes = map[string]bool{
	"comment":           true,
	"line_continuation": true,
}

var compoundNodes = map[string]bool{
	"function_definition":  true,
	"class_definition":     true,
	"decorated_definition": true,
	"if_statement":         true,
	"for_statement":        true,
	"while_statement":      true,
	"try_statement":        true,
	"with_statement":       true,
	"match_statement":      true,
	"case_clause":          true,
}

// Children of a compound statement that carry a further body.
var clauseNodes = map[string]bool{
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
	"case_clause":         true,
}

type builder struct {
	src string
}

func (b *builder) lineStart(off int) int {
	return strings.LastIndexByte(b.src[:off], '\n') + 1
}

func (b *builder) lineEnd(off int) int {
	i := strings.IndexByte(b.src[off:], '\n')
	if i < 0 {
		return len(b.src)
	}
	return off + i + 1
}

// stmtLineEnd returns the end of the line on which a statement ending at end
// finishes, including the line terminator.
func (b *builder) stmtLineEnd(end int) int {
	if end > 0 && b.src[end-1] == '\n' {
		return end
	}
	return b.lineEnd(end)
}

func statementNodes(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || extraNodes[c.Type()] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isCompound(n *sitter.Node) bool {
	return compoundNodes[n.Type()]
}

// body slices a run of statements that all start at indent. start is the
// offset right after the previous statement or block header; the returned
// offset is the end of the last statement's final line.
func (b *builder) body(nodes []*sitter.Node, start int, indent string) ([]cst.Statement, int, error) {
	var out []cst.Statement
	cursor := start
	for i := 0; i < len(nodes); {
		n := nodes[i]
		s := int(n.StartByte())
		ls := b.lineStart(s)
		if ls < cursor {
			return nil, 0, b.errorAt(s, "statement does not start a new line")
		}
		if b.src[ls:s] != indent {
			return nil, 0, b.errorAt(s, "inconsistent indentation")
		}
		leading := b.src[cursor:ls]

		if isCompound(n) {
			stmt, end, err := b.compound(n, leading, indent)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, stmt)
			cursor = end
			i++
			continue
		}

		j := b.sameLine(nodes, i)
		small, trailing, end := b.simple(nodes[i:j])
		out = append(out, &cst.SimpleStatementLine{
			Leading:  leading,
			Body:     small,
			Trailing: trailing,
		})
		cursor = end
		i = j
	}
	return out, cursor, nil
}

// sameLine returns the index after the last simple statement that shares the
// line on which nodes[i] ends, as in `a = 1; b = 2`.
func (b *builder) sameLine(nodes []*sitter.Node, i int) int {
	end := int(nodes[i].EndByte())
	j := i + 1
	for j < len(nodes) && !isCompound(nodes[j]) && int(nodes[j].StartByte()) < b.stmtLineEnd(end) {
		end = int(nodes[j].EndByte())
		j++
	}
	return j
}

// simple builds the content of one statement line from its small statements.
func (b *builder) simple(nodes []*sitter.Node) (cst.SmallStatement, cst.TrailingWhitespace, int) {
	start := int(nodes[0].StartByte())
	last := int(nodes[len(nodes)-1].EndByte())
	end := b.stmtLineEnd(last)

	content, newline := splitNewline(b.src[last:end])
	pre, comment := content, ""
	if k := strings.IndexByte(content, '#'); k >= 0 {
		pre, comment = content[:k], content[k:]
	}
	code := strings.TrimRight(pre, " \t\f")
	trailing := cst.TrailingWhitespace{
		Whitespace: pre[len(code):],
		Comment:    comment,
		Newline:    newline,
	}

	text := b.src[start:last] + code
	if nodes[0].Type() != "expression_statement" || nodes[0].NamedChildCount() != 1 {
		return &cst.RawStatement{Text: text}, trailing, end
	}
	value := nodes[0].NamedChild(0)
	switch {
	case len(nodes) == 1 && code == "":
		if str := b.literal(value, start, last); str != nil {
			return &cst.Expr{Value: str}, trailing, end
		}
		return &cst.Expr{Value: &cst.RawExpression{Text: text}}, trailing, end
	case len(nodes) > 1:
		headEnd := int(nodes[0].EndByte())
		if str := b.literal(value, start, headEnd); str != nil {
			tail := int(nodes[1].StartByte())
			return &cst.Sequence{
				Head: &cst.Expr{Value: str},
				Sep:  b.src[headEnd:tail],
				Tail: b.src[tail:last] + code,
			}, trailing, end
		}
	}
	return &cst.RawStatement{Text: text}, trailing, end
}

// literal returns the single string literal spanning src[from:to], looking
// through any parentheses around it.
func (b *builder) literal(n *sitter.Node, from, to int) *cst.SimpleString {
	if int(n.StartByte()) != from || int(n.EndByte()) != to {
		return nil
	}
	for n.Type() == "parenthesized_expression" && n.NamedChildCount() == 1 {
		n = n.NamedChild(0)
	}
	if n.Type() != "string" {
		return nil
	}
	s, e := int(n.StartByte()), int(n.EndByte())
	return &cst.SimpleString{Lpar: b.src[from:s], Value: b.src[s:e], Rpar: b.src[e:to]}
}

func splitNewline(s string) (string, string) {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2], "\r\n"
	case strings.HasSuffix(s, "\n"):
		return s[:len(s)-1], "\n"
	}
	return s, ""
}

func (b *builder) compound(n *sitter.Node, leading, indent string) (cst.Statement, int, error) {
	switch n.Type() {
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			return b.definition(n, def, leading, indent)
		}
	case "function_definition", "class_definition":
		return b.definition(n, n, leading, indent)
	default:
		return b.generic(n, leading, indent)
	}
	return b.raw(n, leading)
}

// raw keeps a statement the builder cannot take apart as verbatim text.
func (b *builder) raw(n *sitter.Node, leading string) (cst.Statement, int, error) {
	small, trailing, end := b.simple([]*sitter.Node{n})
	if expr, ok := small.(*cst.Expr); ok {
		small = &cst.RawStatement{Text: expr.Code()}
	}
	return &cst.SimpleStatementLine{Leading: leading, Body: small, Trailing: trailing}, end, nil
}

func (b *builder) definition(outer, def *sitter.Node, leading, indent string) (cst.Statement, int, error) {
	name := def.ChildByFieldName("name")
	block := def.ChildByFieldName("body")
	if name == nil || block == nil {
		return b.raw(outer, leading)
	}
	colon := colonBefore(def, block)
	if colon == nil {
		return b.raw(outer, leading)
	}

	isClass := def.Type() == "class_definition"
	header := b.src[outer.StartByte():colon.EndByte()]
	suite, end, err := b.suite(colon, block, -1, isClass, indent)
	if err != nil {
		return nil, 0, err
	}

	ident := name.Content([]byte(b.src))
	if isClass {
		return &cst.ClassDef{Leading: leading, Header: header, Name: ident, Body: suite}, end, nil
	}
	return &cst.FunctionDef{Leading: leading, Header: header, Name: ident, Body: suite}, end, nil
}

type clauseNode struct {
	owner  *sitter.Node
	direct bool
	colon  *sitter.Node
	block  *sitter.Node
}

func (b *builder) generic(n *sitter.Node, leading, indent string) (cst.Statement, int, error) {
	var clauses []clauseNode
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch {
		case c.Type() == "block":
			if colon := colonBefore(n, c); colon != nil {
				clauses = append(clauses, clauseNode{owner: n, direct: true, colon: colon, block: c})
			}
		case clauseNodes[c.Type()]:
			blk := blockChild(c)
			if blk == nil {
				continue
			}
			if colon := colonBefore(c, blk); colon != nil {
				clauses = append(clauses, clauseNode{owner: c, colon: colon, block: blk})
			}
		}
	}
	if len(clauses) == 0 {
		return b.raw(n, leading)
	}

	stmt := &cst.CompoundStatement{Leading: leading}
	headerStart := int(n.StartByte())
	for k, cl := range clauses {
		regionEnd := -1
		if k+1 < len(clauses) {
			next := clauses[k+1]
			ns := int(next.owner.StartByte())
			if next.direct {
				ns = int(next.colon.StartByte())
			}
			regionEnd = b.lineStart(ns)
		}
		header := b.src[headerStart:cl.colon.EndByte()]
		suite, end, err := b.suite(cl.colon, cl.block, regionEnd, false, indent)
		if err != nil {
			return nil, 0, err
		}
		stmt.Clauses = append(stmt.Clauses, cst.Clause{Header: header, Body: suite})
		headerStart = end
	}
	return stmt, headerStart, nil
}

// suite builds the body that follows colon. A positive regionEnd marks where
// the next clause of the enclosing statement begins; text between the last
// statement and regionEnd becomes the block footer.
func (b *builder) suite(colon, block *sitter.Node, regionEnd int, frozen bool, outerIndent string) (cst.Suite, int, error) {
	stmts := statementNodes(block)
	colonEnd := int(colon.EndByte())
	if len(stmts) == 0 {
		return nil, 0, b.errorAt(colonEnd, "expected a statement body")
	}
	first := stmts[0]
	firstStart := int(first.StartByte())

	if b.lineStart(firstStart) == b.lineStart(int(colon.StartByte())) {
		if b.sameLine(stmts, 0) != len(stmts) {
			return nil, 0, b.errorAt(firstStart, "unexpected statement after one-line body")
		}
		small, trailing, end := b.simple(stmts)
		return &cst.SimpleSuite{
			Leading:  b.src[colonEnd:firstStart],
			Body:     small,
			Trailing: trailing,
		}, end, nil
	}

	headerEnd := b.lineEnd(colonEnd)
	indent := b.src[b.lineStart(firstStart):firstStart]
	if len(indent) <= len(outerIndent) || !strings.HasPrefix(indent, outerIndent) {
		return nil, 0, b.errorAt(firstStart, "expected an indented block")
	}
	body, end, err := b.body(stmts, headerEnd, indent)
	if err != nil {
		return nil, 0, err
	}

	footer := ""
	if regionEnd >= 0 {
		if regionEnd < end {
			return nil, 0, b.errorAt(regionEnd, "clause overlaps previous body")
		}
		footer = b.src[end:regionEnd]
		end = regionEnd
	}

	header := b.src[colonEnd:headerEnd]
	if frozen {
		return cst.NewFrozenBlock(header, indent, body, footer), end, nil
	}
	return &cst.IndentedBlock{Header: header, Indent: indent, Body: body, Footer: footer}, end, nil
}

func colonBefore(parent, target *sitter.Node) *sitter.Node {
	var colon *sitter.Node
	for i := 0; i < int(parent.ChildCount()); i++ {
		c := parent.Child(i)
		if c == nil {
			continue
		}
		if c.StartByte() == target.StartByte() && c.Type() == target.Type() {
			return colon
		}
		if c.Type() == ":" {
			colon = c
		}
	}
	return nil
}

func blockChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == "block" {
			return c
		}
	}
	return nil
}
