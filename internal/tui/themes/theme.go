// Package themes holds the color schemes for the dashboard.
package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Panel         lipgloss.Style
	ActivePanel   lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Name          string
}

func build(name string, primary, income, expense, muted, border, fg lipgloss.Color) Theme {
	return Theme{
		Name:       name,
		Primary:    primary,
		Income:     income,
		Expense:    expense,
		Muted:      muted,
		Border:     border,
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		ActivePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		StatusError: lipgloss.NewStyle().
			Foreground(expense).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default mirrors the Fusion palette of the settings file.
var Default = build("Fusion",
	lipgloss.Color("#2196F3"),
	lipgloss.Color("#4CAF50"),
	lipgloss.Color("#F44336"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("catppuccin-mocha",
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
)

// GetTheme returns a theme by name. Unknown names get the default.
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "catppuccin-mocha", "dark":
		return CatppuccinMocha
	default:
		return Default
	}
}
