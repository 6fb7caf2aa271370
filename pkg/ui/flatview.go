package ui

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/engine"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// sectionOrder fixes the flat view's grouping: work not yet begun on top,
// finished work at the bottom
var sectionOrder = []model.Status{
	model.StatusUnstarted,
	model.StatusOngoing,
	model.StatusCompleted,
}

// renderFlatView draws the status-grouped issue list
func (m Model) renderFlatView() string {
	if len(m.visible) == 0 {
		return m.theme.Renderer.NewStyle().
			Width(m.width).
			Height(m.height - 1).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(m.theme.Secondary).
			Render("No issues match the current filters, 'r' resets them")
	}

	state := m.eng.State()
	terms := state.SearchTerms()

	// Group in collection order; a group renders only when populated
	grouped := make(map[model.Status][]int)
	for i := range m.visible {
		status := m.eng.StatusOf(&m.visible[i])
		grouped[status] = append(grouped[status], i)
	}

	titleWidth := m.width - 6

	var lines []string
	for _, status := range sectionOrder {
		idxs := grouped[status]
		if len(idxs) == 0 {
			continue
		}

		header := SectionHeaderStyle.
			Background(StatusColor(string(status))).
			Render(fmt.Sprintf("%s %s (%d)", StatusIcon(string(status)),
				strings.ToUpper(string(status)), len(idxs)))
		lines = append(lines, header)

		for _, i := range idxs {
			issue := &m.visible[i]

			title := highlightMatches(Truncate(issue.Title, titleWidth), terms)
			meta := ""
			if issue.Assignee != "" {
				meta = HintStyle.Render("@" + issue.Assignee)
			}

			row := title + meta
			if i == m.listIndex {
				row = SelectedItemStyle.Render("▸ ") + SelectedItemStyle.Render(row)
			} else {
				row = ItemStyle.Render("  " + row)
			}
			lines = append(lines, row)
		}
		lines = append(lines, "")
	}

	// Scroll window centered on the selection
	maxLines := m.height - 2
	if maxLines < 1 {
		maxLines = 1
	}
	if len(lines) > maxLines {
		selLine := selectedLine(lines, m.listIndex)
		start := selLine - maxLines/2
		if start < 0 {
			start = 0
		}
		if start+maxLines > len(lines) {
			start = len(lines) - maxLines
		}
		lines = lines[start : start+maxLines]
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// selectedLine finds the rendered line carrying the selection marker so
// the scroll window can track it
func selectedLine(lines []string, _ int) int {
	for i, l := range lines {
		if strings.Contains(l, "▸") {
			return i
		}
	}
	return 0
}

// highlightMatches wraps each search term occurrence in the match style.
// Case-insensitive, first occurrence per term. Matching runs against the
// unstyled title on rune boundaries; folding can change byte lengths, so
// offsets from a lowered copy would be wrong. Overlapping terms keep the
// earlier match.
func highlightMatches(title string, terms []string) string {
	if len(terms) == 0 {
		return title
	}
	type span struct{ start, end int }
	var spans []span
	for _, term := range terms {
		start, end := indexFold(title, term)
		if start < 0 {
			continue
		}
		overlaps := false
		for _, s := range spans {
			if start < s.end && end > s.start {
				overlaps = true
				break
			}
		}
		if !overlaps {
			spans = append(spans, span{start, end})
		}
	}
	if len(spans) == 0 {
		return title
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(title[prev:s.start])
		b.WriteString(MatchStyle.Render(title[s.start:s.end]))
		prev = s.end
	}
	b.WriteString(title[prev:])
	return b.String()
}

// indexFold returns the byte range of the first case-insensitive
// occurrence of term in s, or (-1, -1)
func indexFold(s, term string) (int, int) {
	if term == "" {
		return -1, -1
	}
	for i := range s {
		j := i
		matched := true
		for _, tr := range term {
			r, size := utf8.DecodeRuneInString(s[j:])
			if size == 0 || !runeEqualFold(r, tr) {
				matched = false
				break
			}
			j += size
		}
		if matched {
			return i, j
		}
	}
	return -1, -1
}

func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// renderFooter draws the status line: mode badge, active facet badges,
// distribution stats, and either a transient message or the key hints
func (m Model) renderFooter() string {
	state := m.eng.State()

	var parts []string

	mode := "LIST"
	if m.eng.Mode() == engine.ViewBoard {
		mode = "BOARD"
		if active, ok := m.eng.Profiles().Active(); ok {
			mode += " · " + Truncate(active.Title, 16)
		}
	}
	parts = append(parts, BadgeStyle.Render(mode))

	if m.focused == focusSearch {
		parts = append(parts, m.searchInput.View())
	} else if state.Search != "" {
		parts = append(parts, FacetBadgeStyle.Render("🔍 "+Truncate(state.Search, 18)))
	}
	if state.Assignee != "" {
		parts = append(parts, FacetBadgeStyle.Render("@"+Truncate(state.Assignee, 14)))
	}
	if n := len(state.Labels); n > 0 {
		parts = append(parts, FacetBadgeStyle.Render(fmt.Sprintf("🏷 %d", n)))
	}
	if state.UnassignedOnly {
		parts = append(parts, FacetBadgeStyle.Render("unassigned"))
	}
	if state.HideClosed {
		parts = append(parts, FacetBadgeStyle.Render("open only"))
	}

	shown := len(m.visible)
	if m.eng.Mode() == engine.ViewBoard {
		shown = m.boardView.TotalCount()
	}
	parts = append(parts, HintStyle.Render(
		fmt.Sprintf("%d/%d", shown, m.summary.TotalIssues)))

	// Label load sparkline: how heavy the busiest label is relative to
	// the collection
	if m.summary.TotalIssues > 0 && m.summary.Labels.Max > 0 {
		load := float64(m.summary.Labels.Max) / float64(m.summary.TotalIssues)
		parts = append(parts, HintStyle.Render(RenderSparkline(load, 6)))
	}

	if m.statusMsg != "" {
		style := HintStyle
		if m.statusIsError {
			style = style.Foreground(ColorDanger)
		}
		parts = append(parts, style.Render(m.statusMsg))
	} else if m.focused != focusSearch {
		parts = append(parts, HintStyle.Render("? help"))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(1).
		Render(strings.Join(parts, " "))
}
