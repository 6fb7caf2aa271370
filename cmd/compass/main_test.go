package main

import (
	"path/filepath"
	"testing"
)

// Milestone state is keyed by the export file, the alternative-assignee
// prefix by its parent directory: two exports in one project directory
// get distinct milestone scopes but share the project scope.
func TestScopeDerivation(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "sprint-12.jsonl")
	b := filepath.Join(dir, "sprint-13.jsonl")

	if deriveScope(a) == deriveScope(b) {
		t.Error("sibling exports must not share a milestone scope")
	}
	if deriveProjectScope(a) != deriveProjectScope(b) {
		t.Errorf("sibling exports should share a project scope: %q vs %q",
			deriveProjectScope(a), deriveProjectScope(b))
	}
	if deriveProjectScope(a) != dir {
		t.Errorf("project scope = %q, want %q", deriveProjectScope(a), dir)
	}
}
