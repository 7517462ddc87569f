package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// NewDefaultSpinner creates the themed dot spinner.
func NewDefaultSpinner(theme *Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	return s
}

// DoneMsg ends a ProgressModel.
type DoneMsg struct{ Err error }

// ProgressMsg updates the status line of a ProgressModel.
type ProgressMsg string

// ProgressModel shows a spinner with a status line until a DoneMsg arrives.
type ProgressModel struct {
	Spinner spinner.Model
	Message string
	Err     error
	done    bool
	theme   *Theme
}

// NewProgress creates a progress indicator with message.
func NewProgress(theme *Theme, message string) ProgressModel {
	return ProgressModel{
		Spinner: NewDefaultSpinner(theme),
		Message: message,
		theme:   theme,
	}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	case ProgressMsg:
		m.Message = string(msg)
	case DoneMsg:
		m.done = true
		m.Err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	if m.done {
		return ""
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		"  ",
		m.Spinner.View(),
		" ",
		m.theme.Subtle.Render(m.Message),
	) + "\n"
}
