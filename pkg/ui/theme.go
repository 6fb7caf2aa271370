package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the renderer with the adaptive accents used by the views
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Unstarted lipgloss.AdaptiveColor
	Ongoing   lipgloss.AdaptiveColor
	Completed lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-flavored default theme
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A6080", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEE8FD", Dark: "#44475A"},
		Unstarted: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"},
		Ongoing:   lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#8BE9FD"},
		Completed: lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#50FA7B"},
	}
}

// StatusAccent returns the theme accent for a lifecycle status name
func (t Theme) StatusAccent(status string) lipgloss.AdaptiveColor {
	switch status {
	case "ongoing":
		return t.Ongoing
	case "completed":
		return t.Completed
	default:
		return t.Unstarted
	}
}
