package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFilterStateRoundTrip(t *testing.T) {
	s := openTestStore(t)

	state := model.FilterState{
		Assignee:   "ann",
		Labels:     []string{"bug", "ui"},
		Search:     "login",
		HideClosed: true,
	}
	if err := s.SaveFilterState("m1", &state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := s.LoadFilterState("m1")
	if !ok {
		t.Fatal("expected saved state back")
	}
	if !got.Equal(&state) {
		t.Errorf("loaded %+v, want %+v", got, state)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	s := openTestStore(t)

	s.SaveFilterState("m1", &model.FilterState{Assignee: "ann"})
	s.SaveFilterState("m2", &model.FilterState{Assignee: "bob"})

	got, _ := s.LoadFilterState("m1")
	if got.Assignee != "ann" {
		t.Errorf("m1 assignee = %q, want ann", got.Assignee)
	}
	if _, ok := s.LoadFilterState("m3"); ok {
		t.Error("unknown scope should load nothing")
	}
}

func TestFilterStateStaleness(t *testing.T) {
	s := openTestStore(t)

	t0 := time.Now()
	s.Now = func() time.Time { return t0 }
	s.SaveFilterState("m1", &model.FilterState{Assignee: "ann"})

	// Just inside the window
	s.Now = func() time.Time { return t0.Add(TTLFilterState - time.Hour) }
	if _, ok := s.LoadFilterState("m1"); !ok {
		t.Error("state within 7 days should load")
	}

	// Past the window: stale means absent
	s.Now = func() time.Time { return t0.Add(TTLFilterState + time.Hour) }
	if _, ok := s.LoadFilterState("m1"); ok {
		t.Error("state older than 7 days should be treated as absent")
	}
}

func TestViewModeStaleness(t *testing.T) {
	s := openTestStore(t)

	t0 := time.Now()
	s.Now = func() time.Time { return t0 }
	s.SaveViewMode("m1", true)

	board, ok := s.LoadViewMode("m1")
	if !ok || !board {
		t.Errorf("LoadViewMode = %v, %v, want board", board, ok)
	}

	// The view-mode flag goes stale after a day
	s.Now = func() time.Time { return t0.Add(25 * time.Hour) }
	if _, ok := s.LoadViewMode("m1"); ok {
		t.Error("view mode older than 24h should be absent")
	}
}

func TestProfilesRoundTripAndStaleness(t *testing.T) {
	s := openTestStore(t)

	set := model.NewProfileSet()
	set.Profiles["board-1"] = model.BoardProfile{ID: "board-1", Title: "Sprint", Labels: []string{"bug"}}
	set.ActiveID = "board-1"

	t0 := time.Now()
	s.Now = func() time.Time { return t0 }
	if err := s.SaveProfiles("m1", set); err != nil {
		t.Fatalf("SaveProfiles: %v", err)
	}

	got, ok := s.LoadProfiles("m1")
	if !ok {
		t.Fatal("expected profiles back")
	}
	if got.ActiveID != "board-1" || got.Profiles["board-1"].Title != "Sprint" {
		t.Errorf("loaded %+v", got)
	}

	// Profiles live 30 days
	s.Now = func() time.Time { return t0.Add(31 * 24 * time.Hour) }
	if _, ok := s.LoadProfiles("m1"); ok {
		t.Error("profiles older than 30 days should be absent")
	}
}

func TestAltPrefixNeverStale(t *testing.T) {
	s := openTestStore(t)

	t0 := time.Now()
	s.Now = func() time.Time { return t0 }
	if err := s.SaveAltPrefix("project", "assignee/"); err != nil {
		t.Fatalf("SaveAltPrefix: %v", err)
	}

	s.Now = func() time.Time { return t0.Add(365 * 24 * time.Hour) }
	prefix, ok := s.LoadAltPrefix("project")
	if !ok || prefix != "assignee/" {
		t.Errorf("LoadAltPrefix = %q, %v, want assignee/ after a year", prefix, ok)
	}
}

func TestMalformedRecordsAreAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.SaveFilterState("m1", &model.FilterState{Assignee: "ann"})
	s.SaveProfiles("m1", model.NewProfileSet())

	// Corrupt the stored values behind the store's back
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE compass_state SET value = '{not json'`); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, ok := s.LoadFilterState("m1"); ok {
		t.Error("malformed filter state should be absent, not an error")
	}
	if _, ok := s.LoadProfiles("m1"); ok {
		t.Error("malformed profiles should be absent, not an error")
	}
}

func TestUpsertRefreshesTimestamp(t *testing.T) {
	s := openTestStore(t)

	t0 := time.Now()
	s.Now = func() time.Time { return t0 }
	s.SaveFilterState("m1", &model.FilterState{Assignee: "ann"})

	// A rewrite six days later restarts the staleness clock
	s.Now = func() time.Time { return t0.Add(6 * 24 * time.Hour) }
	s.SaveFilterState("m1", &model.FilterState{Assignee: "bob"})

	s.Now = func() time.Time { return t0.Add(12 * 24 * time.Hour) }
	got, ok := s.LoadFilterState("m1")
	if !ok {
		t.Fatal("rewritten state should still be fresh")
	}
	if got.Assignee != "bob" {
		t.Errorf("assignee = %q, want bob (last write wins)", got.Assignee)
	}
}
