package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewSpinner returns a spinner of the given kind drawn in the accent color.
func NewSpinner(theme *Theme, kind spinner.Spinner) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(kind),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
	)
}

// Loading renders the current spinner frame followed by a muted message.
func (t *Theme) Loading(s spinner.Model, message string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center, s.View(), " ", t.Subtle.Render(message))
}
