package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/engine"
)

// PickerItem is one selectable row in a facet picker overlay
type PickerItem struct {
	ID       string
	Title    string
	Count    int
	Selected bool
	Alt      bool // alternative-assignee entry
}

// PickerModel is the overlay used for both the assignee and the label
// facet. Entries with a zero contextual count never reach it: the
// engine drops them unless they are the current selection, so the picker
// never offers a choice that would empty the result set while still
// allowing deselection.
type PickerModel struct {
	title string
	items []PickerItem
	index int
	theme Theme
}

// NewAssigneePicker builds the assignee overlay from the contextual
// counts
func NewAssigneePicker(counts engine.FacetCounts, selected string, theme Theme) PickerModel {
	items := make([]PickerItem, 0, len(counts.Assignees)+1)
	items = append(items, PickerItem{Title: "(anyone)", Selected: selected == ""})
	for _, a := range counts.Assignees {
		items = append(items, PickerItem{
			ID:       a.Name,
			Title:    a.Name,
			Count:    a.Count,
			Selected: a.Name == selected,
			Alt:      a.IsAlternative,
		})
	}
	return PickerModel{title: "ASSIGNEE", items: items, theme: theme}
}

// NewLabelPicker builds the label overlay from the contextual counts
func NewLabelPicker(counts engine.FacetCounts, selected func(string) bool, theme Theme) PickerModel {
	items := make([]PickerItem, 0, len(counts.Labels))
	for _, l := range counts.Labels {
		if l.IsAlternativeAssignee {
			continue // reachable through the assignee picker instead
		}
		items = append(items, PickerItem{
			ID:       l.ID,
			Title:    l.Text,
			Count:    l.Count,
			Selected: selected(l.ID),
		})
	}
	return PickerModel{title: "LABELS", items: items, theme: theme}
}

// MoveDown advances the cursor
func (p *PickerModel) MoveDown() {
	if p.index < len(p.items)-1 {
		p.index++
	}
}

// MoveUp retreats the cursor
func (p *PickerModel) MoveUp() {
	if p.index > 0 {
		p.index--
	}
}

// Current returns the item under the cursor
func (p *PickerModel) Current() (PickerItem, bool) {
	if p.index < 0 || p.index >= len(p.items) {
		return PickerItem{}, false
	}
	return p.items[p.index], true
}

// View renders the overlay centered in the given area
func (p PickerModel) View(width, height int) string {
	t := p.theme

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)

	var rows []string
	rows = append(rows, titleStyle.Render(p.title))

	maxRows := height - 8
	if maxRows < 3 {
		maxRows = 3
	}
	start := 0
	if p.index >= maxRows {
		start = p.index - maxRows + 1
	}
	end := start + maxRows
	if end > len(p.items) {
		end = len(p.items)
	}

	for i := start; i < end; i++ {
		item := p.items[i]

		marker := "  "
		if item.Selected {
			marker = "✓ "
		}
		name := item.Title
		if item.Alt {
			name += " ◇"
		}
		label := fmt.Sprintf("%s%s", marker, Truncate(name, 28))
		count := ""
		if item.ID != "" {
			count = fmt.Sprintf(" %d", item.Count)
		}

		style := t.Renderer.NewStyle().Width(36)
		if i == p.index {
			style = style.Background(t.Highlight).Bold(true)
		}
		countStyle := t.Renderer.NewStyle().Foreground(t.Secondary)
		rows = append(rows, style.Render(label+countStyle.Render(count)))
	}

	if len(p.items) == 0 {
		rows = append(rows, t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Italic(true).
			Render("nothing matches the current filters"))
	}

	rows = append(rows, "")
	rows = append(rows, t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true).
		Render("⏎ toggle · esc close"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
