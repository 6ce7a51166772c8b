package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user quits the spinner from the keyboard.
var ErrCanceled = errors.New("operation canceled")

// RunSpinner runs a minimal Bubble Tea spinner while executing the given action.
// Messages sent through SpinnerLogger replace the status line. The UI exits
// when the action completes and returns the action's error.
func RunSpinner(ctx context.Context, title string, action func(ctx context.Context) error, opts ...tea.ProgramOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logs := make(chan string, 64)
	setActiveLogChannel(logs)
	defer clearActiveLogChannel()

	done := make(chan error, 1)
	go func() { done <- action(ctx) }()

	m := newSpinnerModel(title, done, logs)
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m.canceled {
		cancel()
		<-done
		return ErrCanceled
	}
	if !m.done {
		// The program stopped before the action finished.
		cancel()
		return <-done
	}
	return m.err
}

type actionDoneMsg struct{ err error }

type statusMsg string

type spinnerModel struct {
	title    string
	status   string
	spin     spinner.Model
	done     bool
	canceled bool
	err      error
	style    lipgloss.Style
	muted    lipgloss.Style
	result   <-chan error
	logs     <-chan string
}

func newSpinnerModel(title string, result <-chan error, logs <-chan string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &spinnerModel{
		title:  title,
		spin:   s,
		style:  lipgloss.NewStyle().Padding(0, 1),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		result: result,
		logs:   logs,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForResult(m.result), waitForLog(m.logs))
}

func waitForResult(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: <-ch}
	}
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg(<-ch)
	}
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceled = true
			return m, tea.Quit
		}
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case statusMsg:
		if msg != "" {
			m.status = string(msg)
		}
		return m, waitForLog(m.logs)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return m.style.Render("✗ "+m.title+" ("+m.err.Error()+")") + "\n"
		}
		return m.style.Render("✓ "+m.title) + "\n"
	}
	line := m.spin.View() + " " + m.title
	if m.status != "" {
		line += " " + m.muted.Render(m.status)
	}
	return m.style.Render(line)
}
