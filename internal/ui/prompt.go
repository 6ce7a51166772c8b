package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/getlawrence/autodocs/internal/docstring"
)

// ErrAborted is returned when the user quits at a confirmation prompt.
var ErrAborted = errors.New("aborted by user")

var (
	promptPathStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	promptTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).PaddingLeft(4)
	promptOldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).PaddingLeft(4)
)

// Prompter asks the user to accept each docstring change.
// Answers: y accepts, n skips, a accepts this and every later change,
// q aborts the run.
type Prompter struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	file   string
	accept bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ForFile returns a confirm function that labels prompts with file.
func (p *Prompter) ForFile(file string) docstring.ConfirmFunc {
	return func(ctx context.Context, c docstring.Change) (bool, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.file = file
		return p.confirm(ctx, c)
	}
}

// Confirm implements docstring.ConfirmFunc.
func (p *Prompter) Confirm(ctx context.Context, c docstring.Change) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.confirm(ctx, c)
}

func (p *Prompter) confirm(ctx context.Context, c docstring.Change) (bool, error) {
	if p.accept {
		return true, nil
	}

	label := fmt.Sprintf("%s %s %s", c.Action, c.Kind, c.Path)
	if p.file != "" {
		label = p.file + ": " + label
	}
	fmt.Fprintln(p.out, promptPathStyle.Render(label))
	if c.Previous != "" {
		fmt.Fprintln(p.out, promptOldStyle.Render(c.Previous))
	}
	fmt.Fprintln(p.out, promptTextStyle.Render(c.Text))

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprint(p.out, "Apply? [y/n/a/q] ")
		line, err := p.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && answer == "" {
			if errors.Is(err, io.EOF) {
				return false, ErrAborted
			}
			return false, err
		}
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		case "a", "all":
			p.accept = true
			return true, nil
		case "q", "quit":
			return false, ErrAborted
		}
		fmt.Fprintln(p.out, "Please answer y, n, a or q.")
	}
}
