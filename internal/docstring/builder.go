package docstring

import (
	"strings"

	"github.com/getlawrence/autodocs/internal/cst"
)

// Style controls how a docstring literal is printed.
type Style struct {
	// Quote is the triple quote delimiter, `"""` or `'''`.
	Quote   string
	Newline string
}

func DefaultStyle() Style {
	return Style{Quote: `"""`, Newline: "\n"}
}

func (s Style) normalized() Style {
	if s.Quote != `'''` {
		s.Quote = `"""`
	}
	if s.Newline == "" {
		s.Newline = "\n"
	}
	return s
}

// BuildDocstring returns a documentation statement holding text. Single line
// text is printed as """text"""; longer text puts its continuation lines and
// the closing delimiter on their own lines at indent. The statement carries no
// leading lines and ends with exactly one newline.
func BuildDocstring(text, indent string, style Style) *cst.SimpleStatementLine {
	style = style.normalized()
	return &cst.SimpleStatementLine{
		Body: &cst.Expr{Value: &cst.SimpleString{
			Value: style.Quote + docstringBody(text, indent, style) + style.Quote,
		}},
		Trailing: cst.TrailingWhitespace{Newline: style.Newline},
	}
}

func docstringBody(text, indent string, style Style) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Trim(text, "\n")
	text = strings.TrimRight(text, " \t")
	text = escapeDocstring(text, style.Quote)

	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return lines[0]
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(lines[0], " \t"))
	for _, line := range lines[1:] {
		b.WriteString(style.Newline)
		line = strings.TrimRight(line, " \t")
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}
	}
	b.WriteString(style.Newline)
	b.WriteString(indent)
	return b.String()
}

// escapeDocstring makes text safe inside a literal delimited by quote.
func escapeDocstring(text, quote string) string {
	q := quote[:1]
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, quote, `\`+q+`\`+q+`\`+q)
	if strings.HasSuffix(text, q) {
		body := text[:len(text)-1]
		slashes := len(body) - len(strings.TrimRight(body, `\`))
		if slashes%2 == 0 {
			text = body + `\` + q
		}
	}
	return text
}
