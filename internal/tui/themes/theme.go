// Package themes defines the visual styles of the explore TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Muted         lipgloss.Style
	Pane          lipgloss.Style
	ActivePane    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#404040"),
)

func newTheme(primary, border lipgloss.Color) Theme {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Theme{
		Primary: primary,
		Border:  border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a3a3a3")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fafafa")),
		Bold: lipgloss.NewStyle().
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#737373")),

		Pane:       pane,
		ActivePane: pane.BorderForeground(primary),

		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
	}
}
