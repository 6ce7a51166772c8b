package cst

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prefix returns the literal's prefix letters, such as "r" or "u".
func (s *SimpleString) Prefix() string {
	i := strings.IndexAny(s.Value, `"'`)
	if i < 0 {
		return ""
	}
	return s.Value[:i]
}

// Quote returns the opening delimiter: one of ", ', """ or '''.
func (s *SimpleString) Quote() string {
	rest := s.Value[len(s.Prefix()):]
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(rest, q) {
			return q
		}
	}
	if rest == "" {
		return ""
	}
	return rest[:1]
}

// Raw returns the characters between the quotes, escapes untouched.
func (s *SimpleString) Raw() string {
	q := s.Quote()
	rest := s.Value[len(s.Prefix()):]
	if q == "" || len(rest) < 2*len(q) {
		return ""
	}
	return rest[len(q) : len(rest)-len(q)]
}

// Text returns the value the literal evaluates to. Escape sequences of
// non-raw literals are decoded; unknown ones are kept as written.
func (s *SimpleString) Text() string {
	raw := s.Raw()
	if strings.ContainsAny(s.Prefix(), "rR") || !strings.Contains(raw, `\`) {
		return raw
	}
	return unescape(raw)
}

func unescape(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := raw[i]; e {
		case '\n':
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i + 1
			for j < len(raw) && j < i+3 && raw[j] >= '0' && raw[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(raw[i:j], 8, 32)
			b.WriteRune(rune(v))
			i = j - 1
		case 'x', 'u', 'U':
			n := 2
			switch e {
			case 'u':
				n = 4
			case 'U':
				n = 8
			}
			if i+1+n > len(raw) {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			v, err := strconv.ParseUint(raw[i+1:i+1+n], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			b.WriteRune(rune(v))
			i += n
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

// IsDocumentation reports whether the literal may act as a docstring.
// Byte strings and f-strings never do.
func (s *SimpleString) IsDocumentation() bool {
	if s.Quote() == "" {
		return false
	}
	p := strings.ToLower(s.Prefix())
	return !strings.ContainsAny(p, "bf")
}

// DocstringLiteral returns the literal of a documentation statement: a
// statement line that starts with a single, possibly parenthesized, string
// literal. Further statements may follow it on the same line.
func DocstringLiteral(s Statement) (*SimpleString, bool) {
	line, ok := s.(*SimpleStatementLine)
	if !ok {
		return nil, false
	}
	var expr *Expr
	switch b := line.Body.(type) {
	case *Expr:
		expr = b
	case *Sequence:
		expr = b.Head
	}
	if expr == nil {
		return nil, false
	}
	str, ok := expr.Value.(*SimpleString)
	if !ok || !str.IsDocumentation() {
		return nil, false
	}
	return str, true
}

// DocstringRest returns the statements sharing a line with a docstring as a
// line of their own, or nil when the docstring stands alone.
func DocstringRest(s Statement) *SimpleStatementLine {
	line, ok := s.(*SimpleStatementLine)
	if !ok {
		return nil
	}
	seq, ok := line.Body.(*Sequence)
	if !ok {
		return nil
	}
	return &SimpleStatementLine{Body: &RawStatement{Text: seq.Tail}, Trailing: line.Trailing}
}

// HasDocstring reports whether the suite starts with a documentation statement.
func HasDocstring(s Suite) bool {
	_, ok := Docstring(s)
	return ok
}

// Docstring returns the cleaned text of the suite's documentation statement.
// The second result is false when the suite has none; an empty docstring
// returns "", true.
func Docstring(s Suite) (string, bool) {
	if IsNil(s) {
		return "", false
	}
	var first Statement
	switch b := s.(type) {
	case *FrozenBlock:
		if b.Len() == 0 {
			return "", false
		}
		first = b.body[0]
	default:
		stmts := s.Statements()
		if len(stmts) == 0 {
			return "", false
		}
		first = stmts[0]
	}
	lit, ok := DocstringLiteral(first)
	if !ok {
		return "", false
	}
	return CleanDoc(lit.Text()), true
}

// CleanDoc normalises docstring text the way Python's inspect.cleandoc does:
// the first line is left-stripped, the common indentation of the remaining
// lines is removed and leading and trailing blank lines are dropped.
func CleanDoc(doc string) string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\t", "        ")
	lines := strings.Split(doc, "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeftFunc(line, unicode.IsSpace)
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeftFunc(lines[0], unicode.IsSpace)
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeftFunc(lines[i], unicode.IsSpace)
			}
		}
	}
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
