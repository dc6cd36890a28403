package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"imgbom/internal/tui/styles"
)

// Spinner pairs a bubbles spinner with a status line
type Spinner struct {
	spinner spinner.Model
	message string
}

// NewSpinner creates a spinner showing message
func NewSpinner(message string) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle
	return Spinner{
		spinner: s,
		message: message,
	}
}

// SetMessage updates the status line
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// Update advances the animation
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s Spinner) View() string {
	return s.spinner.View() + " " + s.message
}

// Tick returns the command that starts the animation
func (s Spinner) Tick() tea.Cmd {
	return s.spinner.Tick
}
