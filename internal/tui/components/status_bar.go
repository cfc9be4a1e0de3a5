package components

import (
	"imagesort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusBar shows the last message or error, with a spinner while busy.
type StatusBar struct {
	text    string
	err     error
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{spinner: s}
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

// SetText shows an informational message and clears any error.
func (s *StatusBar) SetText(text string) {
	s.text = text
	s.err = nil
}

// SetError shows err until the next message.
func (s *StatusBar) SetError(err error) {
	s.err = err
	s.text = ""
}

func (s *StatusBar) Text() string { return s.text }
func (s *StatusBar) Err() error   { return s.err }

// Tick starts the spinner animation.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	switch {
	case s.err != nil:
		return styles.Theme.Error.Render("Error: " + s.err.Error())
	case s.loading:
		return styles.Theme.Status.Render(s.spinner.View() + " " + s.text)
	case s.text != "":
		return styles.Theme.Status.Render(s.text)
	default:
		return ""
	}
}
