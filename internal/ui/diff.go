package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	diffHeaderStyle = lipgloss.NewStyle().Bold(true)
	diffHunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffDelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// RenderDiff returns a unified diff between the original and modified text of
// path, or "" when they are equal. Lines are coloured when color is set.
func RenderDiff(path, original, modified string, color bool) (string, error) {
	if original == modified {
		return "", nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", err
	}
	if !color {
		return text, nil
	}

	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimRight(line, "\r\n")
		eol := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(diffHeaderStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(diffHunkStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(diffAddStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(diffDelStyle.Render(body))
		default:
			b.WriteString(body)
		}
		b.WriteString(eol)
	}
	return b.String(), nil
}
