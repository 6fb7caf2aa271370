package ui

import "github.com/charmbracelet/lipgloss"

// Dracula-inspired color palette
var (
	// Core Colors
	ColorPrimary     = lipgloss.Color("#BD93F9") // Purple
	ColorSecondary   = lipgloss.Color("#6272A4") // Blue-Gray
	ColorBg          = lipgloss.Color("#282A36") // Background
	ColorBgDark      = lipgloss.Color("#1E1F29") // Darker Background
	ColorBgHighlight = lipgloss.Color("#44475A") // Selection
	ColorText        = lipgloss.Color("#F8F8F2") // Foreground
	ColorSubtext     = lipgloss.Color("#BFBFBF") // Dimmer text
	ColorMuted       = lipgloss.Color("#6272A4")

	// Status Colors
	ColorStatusUnstarted = lipgloss.Color("#F1FA8C") // Yellow
	ColorStatusOngoing   = lipgloss.Color("#8BE9FD") // Cyan
	ColorStatusCompleted = lipgloss.Color("#50FA7B") // Green

	// Accents
	ColorWarning   = lipgloss.Color("#FFB86C") // Orange
	ColorDanger    = lipgloss.Color("#FF5555") // Red
	ColorHighlight = lipgloss.Color("#FF79C6") // Pink, search match
)

// Global Styles
var (
	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	// Section headers in the flat view
	SectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBg).
				Padding(0, 1)

	// List items
	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1)

	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(1).
				Background(ColorBgHighlight).
				Bold(true)

	// Search match highlighting inside titles
	MatchStyle = lipgloss.NewStyle().
			Foreground(ColorBg).
			Background(ColorHighlight).
			Bold(true)

	// Footer badges
	BadgeStyle = lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1)

	FacetBadgeStyle = lipgloss.NewStyle().
			Background(ColorBgHighlight).
			Foreground(ColorText).
			Padding(0, 1)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext).
			Padding(0, 1)
)

// StatusColor maps a lifecycle status name to its accent color
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "ongoing":
		return ColorStatusOngoing
	case "completed":
		return ColorStatusCompleted
	default:
		return ColorStatusUnstarted
	}
}

// StatusIcon maps a lifecycle status name to its glyph
func StatusIcon(status string) string {
	switch status {
	case "ongoing":
		return "🔄"
	case "completed":
		return "✅"
	default:
		return "📋"
	}
}
