// Package store persists per-milestone state: filter selections, board
// profiles, the view-mode flag, and the alternative-assignee prefix.
//
// Every record carries its write timestamp and a staleness threshold;
// anything older than its threshold, and anything that fails to decode,
// is treated as absent. The engine then falls back to defaults; a parse
// failure never propagates upward.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// Staleness thresholds per record kind
const (
	TTLFilterState = 7 * 24 * time.Hour
	TTLViewMode    = 24 * time.Hour
	TTLProfiles    = 30 * 24 * time.Hour
)

// record keys within a scope
const (
	keyFilter    = "filter"
	keyProfiles  = "profiles"
	keyViewMode  = "viewmode"
	keyAltPrefix = "alt_prefix"
)

// Store is a small scoped key/value layer over SQLite
type Store struct {
	db *sql.DB

	// Now is the clock used for write timestamps and staleness checks.
	// Overridable in tests.
	Now func() time.Time
}

// Open opens (and initializes) the state database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	s := &Store{db: db, Now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS compass_state (
			scope      TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (scope, key)
		)`)
	if err != nil {
		return fmt.Errorf("init state db: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(scope, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO compass_state (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		scope, key, value, s.Now().Unix())
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", scope, key, err)
	}
	return nil
}

// get returns the stored value unless it is missing or older than ttl.
// ttl <= 0 means the record never goes stale.
func (s *Store) get(scope, key string, ttl time.Duration) (string, bool) {
	var value string
	var updatedAt int64
	err := s.db.QueryRow(`
		SELECT value, updated_at FROM compass_state WHERE scope = ? AND key = ?`,
		scope, key).Scan(&value, &updatedAt)
	if err != nil {
		return "", false
	}
	if ttl > 0 && s.Now().Sub(time.Unix(updatedAt, 0)) > ttl {
		return "", false
	}
	return value, true
}

// SaveFilterState persists the filter state for the milestone scope
func (s *Store) SaveFilterState(scope string, state *model.FilterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode filter state: %w", err)
	}
	return s.put(scope, keyFilter, string(raw))
}

// LoadFilterState restores the filter state for the scope. Missing,
// stale, or malformed records come back as (nil, false).
func (s *Store) LoadFilterState(scope string) (*model.FilterState, bool) {
	raw, ok := s.get(scope, keyFilter, TTLFilterState)
	if !ok {
		return nil, false
	}
	var state model.FilterState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, false
	}
	return &state, true
}

// SaveProfiles persists the profile set for the milestone scope
func (s *Store) SaveProfiles(scope string, set *model.ProfileSet) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return s.put(scope, keyProfiles, string(raw))
}

// LoadProfiles restores the profile set for the scope
func (s *Store) LoadProfiles(scope string) (*model.ProfileSet, bool) {
	raw, ok := s.get(scope, keyProfiles, TTLProfiles)
	if !ok {
		return nil, false
	}
	var set model.ProfileSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, false
	}
	if set.Profiles == nil {
		set.Profiles = make(map[string]model.BoardProfile)
	}
	return &set, true
}

// SaveViewMode persists whether the board view is active for the scope
func (s *Store) SaveViewMode(scope string, board bool) error {
	v := "flat"
	if board {
		v = "board"
	}
	return s.put(scope, keyViewMode, v)
}

// LoadViewMode restores the view-mode flag for the scope
func (s *Store) LoadViewMode(scope string) (board, ok bool) {
	raw, ok := s.get(scope, keyViewMode, TTLViewMode)
	if !ok {
		return false, false
	}
	return raw == "board", true
}

// SaveAltPrefix persists the alternative-assignee prefix. The prefix is
// scoped per top-level project, not per milestone, and never goes stale.
func (s *Store) SaveAltPrefix(projectScope, prefix string) error {
	return s.put(projectScope, keyAltPrefix, prefix)
}

// LoadAltPrefix restores the alternative-assignee prefix for the project
func (s *Store) LoadAltPrefix(projectScope string) (string, bool) {
	return s.get(projectScope, keyAltPrefix, 0)
}
