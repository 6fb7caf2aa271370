package ui_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/ui"
)

func createTheme() ui.Theme {
	return ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}

func twoColumns() []board.Column {
	return []board.Column{
		{Label: "bug", Title: "Bugs", Cards: []model.Issue{
			{ID: "1", Title: "Fix login"},
			{ID: "2", Title: "Fix logout"},
		}},
		{Title: board.MiscTitle, Cards: []model.Issue{
			{ID: "3", Title: "Update docs"},
		}},
	}
}

// TestBoardModelBlackbox tests basic selection and update behavior
func TestBoardModelBlackbox(t *testing.T) {
	b := ui.NewBoardModel(twoColumns(), createTheme())

	sel := b.SelectedIssue()
	if sel == nil || sel.ID != "1" {
		t.Errorf("Expected ID 1 selected in first column, got %v", sel)
	}

	b.SetColumns([]board.Column{
		{Label: "ui", Title: "Frontend", Cards: []model.Issue{{ID: "9"}}},
	})
	sel = b.SelectedIssue()
	if sel == nil || sel.ID != "9" {
		t.Errorf("Expected ID 9 selected after update, got %v", sel)
	}

	b.SetColumns(nil)
	if sel = b.SelectedIssue(); sel != nil {
		t.Errorf("Expected nil selection for empty board, got %v", sel)
	}
}

// TestColumnNavigation tests movement within and across columns
func TestColumnNavigation(t *testing.T) {
	b := ui.NewBoardModel(twoColumns(), createTheme())

	b.MoveDown()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "2" {
		t.Errorf("Expected ID 2 after MoveDown, got %v", sel)
	}

	// MoveDown at bottom stays at bottom
	b.MoveDown()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "2" {
		t.Errorf("Expected to stay at ID 2, got %v", sel)
	}

	b.MoveRight()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "3" {
		t.Errorf("Expected ID 3 in MISC after MoveRight, got %v", sel)
	}

	// MoveRight at the last column stays
	b.MoveRight()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "3" {
		t.Errorf("Expected to stay at ID 3, got %v", sel)
	}

	b.MoveLeft()
	b.MoveToTop()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "1" {
		t.Errorf("Expected ID 1 after MoveLeft+MoveToTop, got %v", sel)
	}

	b.MoveToBottom()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "2" {
		t.Errorf("Expected ID 2 after MoveToBottom, got %v", sel)
	}
}

// TestSetColumnsSanitizesSelection verifies selection clamping on shrink
func TestSetColumnsSanitizesSelection(t *testing.T) {
	var cards []model.Issue
	for i := 1; i <= 5; i++ {
		cards = append(cards, model.Issue{ID: fmt.Sprintf("%d", i)})
	}
	b := ui.NewBoardModel([]board.Column{{Label: "bug", Title: "Bugs", Cards: cards}}, createTheme())

	b.MoveToBottom()
	if sel := b.SelectedIssue(); sel == nil || sel.ID != "5" {
		t.Fatalf("Expected ID 5, got %v", sel)
	}

	b.SetColumns([]board.Column{{Label: "bug", Title: "Bugs", Cards: cards[:2]}})
	sel := b.SelectedIssue()
	if sel == nil || sel.ID != "2" {
		t.Errorf("Expected selection clamped to ID 2, got %v", sel)
	}
}

// TestEmptyBoard verifies navigation never panics without columns
func TestEmptyBoard(t *testing.T) {
	b := ui.NewBoardModel(nil, createTheme())

	b.MoveUp()
	b.MoveDown()
	b.MoveLeft()
	b.MoveRight()
	b.MoveToTop()
	b.MoveToBottom()

	if b.TotalCount() != 0 || b.ColumnCount() != 0 {
		t.Errorf("Expected empty counts, got %d/%d", b.TotalCount(), b.ColumnCount())
	}
	if out := b.View(80, 24); out == "" {
		t.Error("Empty board should still render a hint")
	}
}

// TestCounts verifies card totals across columns
func TestCounts(t *testing.T) {
	b := ui.NewBoardModel(twoColumns(), createTheme())
	if b.ColumnCount() != 2 {
		t.Errorf("ColumnCount = %d, want 2", b.ColumnCount())
	}
	if b.TotalCount() != 3 {
		t.Errorf("TotalCount = %d, want 3", b.TotalCount())
	}
}

// TestViewRendering verifies View doesn't panic at various sizes
func TestViewRendering(t *testing.T) {
	tests := []struct {
		name   string
		cols   []board.Column
		width  int
		height int
	}{
		{"empty", nil, 80, 24},
		{"normal", twoColumns(), 120, 30},
		{"narrow", twoColumns(), 40, 24},
		{"short", twoColumns(), 80, 6},
		{"many_columns", []board.Column{
			{Label: "a", Title: "A", Cards: []model.Issue{{ID: "1"}}},
			{Label: "b", Title: "B", Cards: []model.Issue{{ID: "2"}}},
			{Label: "c", Title: "C", Cards: []model.Issue{{ID: "3"}}},
			{Label: "d", Title: "D", Cards: []model.Issue{{ID: "4"}}},
			{Title: board.MiscTitle, Cards: []model.Issue{{ID: "5"}}},
		}, 200, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ui.NewBoardModel(tt.cols, createTheme())
			_ = b.View(tt.width, tt.height)
		})
	}
}

// TestUnicodeCards verifies wide runes render without panic
func TestUnicodeCards(t *testing.T) {
	cols := []board.Column{{Label: "l", Title: "日本語ラベル", Cards: []model.Issue{
		{ID: "1", Title: "日本語タイトル", Assignee: "ann"},
		{ID: "2", Title: "Émoji test 🎉🚀"},
	}}}
	b := ui.NewBoardModel(cols, createTheme())
	if out := b.View(120, 30); out == "" {
		t.Error("Should render Unicode cards")
	}
}
