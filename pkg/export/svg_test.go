package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

func snapshotColumns() []board.Column {
	return []board.Column{
		{Label: "bug", Title: "Bugs", Cards: []model.Issue{
			{ID: "1", Title: "Fix login", Assignee: "ann"},
			{ID: "2", Title: "Fix logout"},
		}},
		{Title: board.MiscTitle, Cards: []model.Issue{
			{ID: "3", Title: "Update docs"},
		}},
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, snapshotColumns(), "Sprint 12"); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<svg", "Sprint 12", "Bugs (2)", "MISC (1)", "Fix login", "@ann", "@unassigned"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestWriteSVGEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, nil, "Empty"); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if !strings.Contains(buf.String(), "</svg>") {
		t.Error("empty board should still produce a closed document")
	}
}

func TestClipLongTitles(t *testing.T) {
	long := strings.Repeat("x", 100)
	if got := clip(long, 30); len([]rune(got)) != 30 {
		t.Errorf("clip length = %d runes, want 30", len([]rune(got)))
	}
	if got := clip("short", 30); got != "short" {
		t.Errorf("clip(short) = %q", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	if err := WritePNG(path, snapshotColumns(), "Sprint 12"); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
}
