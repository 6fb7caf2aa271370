package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/engine"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/loader"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// The flat view reads the search terms from a copy of the engine state
// and must render the grouped list with a live search applied.
func TestRenderFlatViewWithSearchTerms(t *testing.T) {
	eng := engine.New(engine.Options{Scope: "t"})
	eng.Refresh(&loader.Collection{
		Issues: []model.Issue{
			{ID: "1", Title: "Fix login button", Section: "open"},
			{ID: "2", Title: "Add dashboard", Section: "open"},
		},
	})
	eng.SetSearch("login")

	m := NewModel(eng, DefaultTheme(lipgloss.DefaultRenderer()))
	m.width, m.height = 80, 24
	m.ready = true
	m.refreshViews()

	out := m.renderFlatView()
	if !strings.Contains(out, "login") {
		t.Errorf("flat view missing the matched title, got:\n%s", out)
	}
	if strings.Contains(out, "dashboard") {
		t.Error("non-matching issue should be filtered out")
	}
}

// Lowering can change byte lengths (U+023A is two bytes, its lowercase
// U+2C65 is three), so highlight offsets must come from the original
// string, never from a lowered copy.
func TestHighlightMatchesFoldChangesByteLength(t *testing.T) {
	title := "ȺȺȺȺȺȺȺ fix"
	got := highlightMatches(title, []string{"fix"})
	if !strings.Contains(got, "fix") {
		t.Errorf("highlightMatches(%q) = %q, match lost", title, got)
	}
	if !strings.Contains(got, "ȺȺȺȺȺȺȺ") {
		t.Errorf("highlightMatches(%q) = %q, prefix mangled", title, got)
	}
}

func TestHighlightMatchesMultipleTerms(t *testing.T) {
	got := highlightMatches("Fix login button", []string{"fix", "button"})
	if !strings.Contains(got, "Fix") || !strings.Contains(got, "button") {
		t.Errorf("highlightMatches = %q, terms lost", got)
	}
	// Overlapping terms keep the earlier match and must not corrupt the
	// title.
	got = highlightMatches("Fix login button", []string{"login", "log"})
	if !strings.Contains(got, "login button") {
		t.Errorf("highlightMatches = %q, overlap corrupted the title", got)
	}
}

func TestIndexFold(t *testing.T) {
	tests := []struct {
		s, term    string
		start, end int
	}{
		{"Fix login button", "login", 4, 9},
		{"Fix LOGIN button", "login", 4, 9},
		{"no match here", "zzz", -1, -1},
		{"日本語 fix", "fix", 10, 13},
		{"Ⱥ fix", "ⱥ", 0, 2}, // fold pair with differing byte widths
		{"plain", "", -1, -1},
	}
	for _, tt := range tests {
		start, end := indexFold(tt.s, tt.term)
		if start != tt.start || end != tt.end {
			t.Errorf("indexFold(%q, %q) = (%d, %d), want (%d, %d)",
				tt.s, tt.term, start, end, tt.start, tt.end)
		}
	}
}
