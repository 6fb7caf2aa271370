package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// BoardModel renders the composed label columns with adaptive widths.
// Columns are whatever the composer produced: the configured labels that
// claimed at least one card, plus MISC when anything was left over.
type BoardModel struct {
	columns     []board.Column
	focusedCol  int
	selectedRow []int
	theme       Theme
}

// NewBoardModel creates a board over the given composed columns
func NewBoardModel(cols []board.Column, theme Theme) BoardModel {
	b := BoardModel{theme: theme}
	b.SetColumns(cols)
	return b
}

// SetColumns replaces the board contents, typically after a
// recomposition or a visibility pass
func (b *BoardModel) SetColumns(cols []board.Column) {
	prev := b.selectedRow
	b.columns = cols
	b.selectedRow = make([]int, len(cols))
	for i := range b.selectedRow {
		if i < len(prev) {
			b.selectedRow[i] = prev[i]
		}
		// Clamp selection to the new column size
		if n := len(cols[i].Cards); b.selectedRow[i] >= n {
			b.selectedRow[i] = n - 1
		}
		if b.selectedRow[i] < 0 {
			b.selectedRow[i] = 0
		}
	}
	if b.focusedCol >= len(cols) {
		b.focusedCol = len(cols) - 1
	}
	if b.focusedCol < 0 {
		b.focusedCol = 0
	}
}

// ColumnCount returns the number of rendered columns
func (b *BoardModel) ColumnCount() int {
	return len(b.columns)
}

// TotalCount returns the number of cards across all columns
func (b *BoardModel) TotalCount() int {
	total := 0
	for _, col := range b.columns {
		total += len(col.Cards)
	}
	return total
}

// SelectedIssue returns the currently selected card, or nil on an empty
// board
func (b *BoardModel) SelectedIssue() *model.Issue {
	if len(b.columns) == 0 {
		return nil
	}
	cards := b.columns[b.focusedCol].Cards
	row := b.selectedRow[b.focusedCol]
	if row < len(cards) {
		return &cards[row]
	}
	return nil
}

// Navigation

func (b *BoardModel) MoveDown() {
	if len(b.columns) == 0 {
		return
	}
	if b.selectedRow[b.focusedCol] < len(b.columns[b.focusedCol].Cards)-1 {
		b.selectedRow[b.focusedCol]++
	}
}

func (b *BoardModel) MoveUp() {
	if len(b.columns) == 0 {
		return
	}
	if b.selectedRow[b.focusedCol] > 0 {
		b.selectedRow[b.focusedCol]--
	}
}

func (b *BoardModel) MoveRight() {
	if b.focusedCol < len(b.columns)-1 {
		b.focusedCol++
	}
}

func (b *BoardModel) MoveLeft() {
	if b.focusedCol > 0 {
		b.focusedCol--
	}
}

func (b *BoardModel) MoveToTop() {
	if len(b.columns) > 0 {
		b.selectedRow[b.focusedCol] = 0
	}
}

func (b *BoardModel) MoveToBottom() {
	if len(b.columns) == 0 {
		return
	}
	if n := len(b.columns[b.focusedCol].Cards); n > 0 {
		b.selectedRow[b.focusedCol] = n - 1
	}
}

// View renders the board
func (b BoardModel) View(width, height int) string {
	t := b.theme

	if len(b.columns) == 0 {
		return t.Renderer.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(t.Secondary).
			Render("No board columns. Configure a profile with 'n' or adjust filters")
	}

	numCols := len(b.columns)
	minColWidth := 24
	gaps := numCols - 1
	availableWidth := width - gaps*2
	baseWidth := availableWidth / numCols
	if baseWidth < minColWidth {
		baseWidth = minColWidth
	}

	colHeight := height - 4
	if colHeight < 8 {
		colHeight = 8
	}

	var renderedCols []string
	for i, col := range b.columns {
		isFocused := b.focusedCol == i

		headerText := fmt.Sprintf("%s (%d)", Truncate(col.Title, baseWidth-8), len(col.Cards))
		headerStyle := t.Renderer.NewStyle().
			Width(baseWidth).
			Align(lipgloss.Center).
			Bold(true).
			Padding(0, 1)
		if isFocused {
			headerStyle = headerStyle.
				Background(t.Primary).
				Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1a1a1a"})
		} else {
			headerStyle = headerStyle.
				Background(lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#2a2a2a"}).
				Foreground(t.Primary)
		}
		header := headerStyle.Render(headerText)

		// Cards take 3 lines plus border; use 4 as the scroll unit
		cardHeight := 4
		visibleCards := (colHeight - 1) / cardHeight
		if visibleCards < 1 {
			visibleCards = 1
		}

		sel := b.selectedRow[i]
		start := 0
		if sel >= visibleCards {
			start = sel - visibleCards + 1
		}
		end := start + visibleCards
		if end > len(col.Cards) {
			end = len(col.Cards)
		}

		var cards []string
		for row := start; row < end; row++ {
			cards = append(cards, b.renderCard(&col.Cards[row], baseWidth-4, isFocused && row == sel))
		}
		if len(col.Cards) == 0 {
			cards = append(cards, t.Renderer.NewStyle().
				Width(baseWidth-4).
				Align(lipgloss.Center).
				Foreground(t.Secondary).
				Italic(true).
				Render("(empty)"))
		}
		if len(col.Cards) > visibleCards {
			cards = append(cards, t.Renderer.NewStyle().
				Width(baseWidth-4).
				Align(lipgloss.Center).
				Foreground(t.Secondary).
				Italic(true).
				Render(fmt.Sprintf("↕ %d/%d", sel+1, len(col.Cards))))
		}

		content := lipgloss.JoinVertical(lipgloss.Left, cards...)

		colStyle := t.Renderer.NewStyle().
			Width(baseWidth).
			Height(colHeight).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())
		if isFocused {
			colStyle = colStyle.BorderForeground(t.Primary)
		} else {
			colStyle = colStyle.BorderForeground(t.Border)
		}

		renderedCols = append(renderedCols,
			lipgloss.JoinVertical(lipgloss.Center, header, colStyle.Render(content)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)
}

func (b BoardModel) renderCard(issue *model.Issue, width int, selected bool) string {
	t := b.theme

	cardStyle := t.Renderer.NewStyle().
		Width(width).
		Padding(0, 1)
	if selected {
		cardStyle = cardStyle.
			Background(t.Highlight).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary)
	} else {
		cardStyle = cardStyle.
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(t.Border)
	}

	titleStyle := t.Renderer.NewStyle()
	if selected {
		titleStyle = titleStyle.Foreground(t.Primary).Bold(true)
	}
	line1 := titleStyle.Render(Truncate(issue.Title, width-2))

	var meta []string
	if issue.Assignee != "" {
		meta = append(meta, "@"+Truncate(issue.Assignee, 10))
	}
	if len(issue.Labels) > 0 {
		labelText := Truncate(issue.Labels[0], 8)
		if len(issue.Labels) > 1 {
			labelText += fmt.Sprintf("+%d", len(issue.Labels)-1)
		}
		meta = append(meta, labelText)
	}
	line2 := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Render(Truncate(strings.Join(meta, " "), width-2))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2))
}
