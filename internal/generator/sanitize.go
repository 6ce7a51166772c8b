package generator

import (
	"regexp"
	"strings"
)

var fence = regexp.MustCompile("(?s)^```[a-zA-Z0-9_+-]*\\n(.*?)\\n?```$")

// Sanitize turns free-form model or agent output into docstring text: code
// fences and surrounding triple quotes are stripped along with blank edges.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSpace(s)
	if m := fence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	for _, q := range []string{`"""`, `'''`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[len(q) : len(s)-len(q)])
			break
		}
	}
	return s
}
