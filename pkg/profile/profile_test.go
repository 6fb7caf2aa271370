package profile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

func TestCreateBecomesActive(t *testing.T) {
	s := NewStore(nil)
	p, err := s.Create("Sprint", []string{"bug", "ui"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" {
		t.Error("created profile should get an id")
	}
	active, ok := s.Active()
	if !ok || active.ID != p.ID {
		t.Errorf("active = %v, want the new profile", active)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Create("   ", nil); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestCreateEnforcesLimit(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < model.MaxProfiles; i++ {
		if _, err := s.Create(fmt.Sprintf("Board %d", i), nil); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := s.Create("One too many", nil); !errors.Is(err, ErrLimitReached) {
		t.Errorf("err = %v, want ErrLimitReached", err)
	}
	// Deleting one frees a slot
	if err := s.Delete("board-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Create("Replacement", nil); err != nil {
		t.Errorf("Create after delete: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore(nil)
	p, _ := s.Create("Sprint", []string{"bug"})

	if err := s.Update(p.ID, "Sprint 2", []string{"ui", "docs"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := s.Set().Profiles[p.ID]
	if got.Title != "Sprint 2" || len(got.Labels) != 2 {
		t.Errorf("updated profile = %+v", got)
	}

	if err := s.Update("missing", "x", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Update(p.ID, "", nil); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestDeleteActivePicksFallback(t *testing.T) {
	s := NewStore(nil)
	s.Create("A", nil) // board-1
	s.Create("B", nil) // board-2
	s.Create("C", nil) // board-3, active

	if err := s.Delete("board-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	active, ok := s.Active()
	if !ok || active.ID != "board-1" {
		t.Errorf("fallback active = %v, want board-1 (first sorted)", active)
	}
}

func TestDeleteInactiveKeepsActive(t *testing.T) {
	s := NewStore(nil)
	s.Create("A", nil)
	b, _ := s.Create("B", nil)

	if err := s.Delete("board-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	active, ok := s.Active()
	if !ok || active.ID != b.ID {
		t.Errorf("active = %v, want B untouched", active)
	}
}

func TestDeleteLastLeavesNoActive(t *testing.T) {
	s := NewStore(nil)
	p, _ := s.Create("Only", nil)
	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := s.Active(); ok {
		t.Error("deleting the only profile should leave nothing active")
	}
}

func TestSwitchActive(t *testing.T) {
	s := NewStore(nil)
	a, _ := s.Create("A", nil)
	s.Create("B", nil)

	if err := s.SwitchActive(a.ID); err != nil {
		t.Fatalf("SwitchActive: %v", err)
	}
	active, _ := s.Active()
	if active.ID != a.ID {
		t.Errorf("active = %s, want %s", active.ID, a.ID)
	}

	if err := s.SwitchActive("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBootstrapTopLabels(t *testing.T) {
	issues := []model.Issue{
		{ID: "1", Labels: []string{"bug", "ui", "docs", "infra", "perf"}},
		{ID: "2", Labels: []string{"bug", "ui", "docs", "infra"}},
		{ID: "3", Labels: []string{"bug", "ui", "docs"}},
		{ID: "4", Labels: []string{"bug", "ui"}},
		{ID: "5", Labels: []string{"bug", "alt"}},
	}
	labels := []model.Label{
		{ID: "bug", Text: "bug"},
		{ID: "ui", Text: "ui"},
		{ID: "docs", Text: "docs"},
		{ID: "infra", Text: "infra"},
		{ID: "perf", Text: "perf"},
		{ID: "alt", Text: "👤::bob"}, // alternative labels never become columns
	}
	idx := index.Build(issues, labels, nil, "👤::")

	s := NewStore(nil)
	p, created := s.Bootstrap(idx)
	if !created {
		t.Fatal("expected bootstrap to create a profile")
	}
	if p.Title != BootstrapTitle {
		t.Errorf("title = %q, want %q", p.Title, BootstrapTitle)
	}
	want := []string{"bug", "ui", "docs", "infra"}
	if len(p.Labels) != len(want) {
		t.Fatalf("labels = %v, want %v", p.Labels, want)
	}
	for i := range want {
		if p.Labels[i] != want[i] {
			t.Errorf("labels[%d] = %s, want %s (most-used first)", i, p.Labels[i], want[i])
		}
	}

	active, ok := s.Active()
	if !ok || active.ID != p.ID {
		t.Error("bootstrapped profile should be active")
	}
}

func TestBootstrapSkipsWhenProfilesExist(t *testing.T) {
	idx := index.Build(
		[]model.Issue{{ID: "1", Labels: []string{"bug"}}},
		[]model.Label{{ID: "bug", Text: "bug"}}, nil, "")

	s := NewStore(nil)
	s.Create("Existing", nil)
	if _, created := s.Bootstrap(idx); created {
		t.Error("bootstrap must not run when a profile already exists")
	}
}

func TestBootstrapSkipsWithoutUsableLabels(t *testing.T) {
	idx := index.Build(nil, []model.Label{{ID: "alt", Text: "👤::bob"}}, nil, "👤::")
	s := NewStore(nil)
	if _, created := s.Bootstrap(idx); created {
		t.Error("bootstrap needs at least one used non-alternative label")
	}
}

func TestNextIDFillsGaps(t *testing.T) {
	s := NewStore(nil)
	s.Create("A", nil)
	s.Create("B", nil)
	s.Delete("board-1")

	p, _ := s.Create("C", nil)
	if p.ID != "board-1" {
		t.Errorf("id = %s, want reclaimed board-1", p.ID)
	}
}
