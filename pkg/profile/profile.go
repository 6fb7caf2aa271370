// Package profile manages the named board configurations for one
// milestone scope: at most five profiles, at most one active.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/util/topk"
)

// BootstrapLabelCount is how many of the most-used labels seed the
// auto-created profile
const BootstrapLabelCount = 4

// BootstrapTitle is the title of the auto-created profile
const BootstrapTitle = "DEFAULT"

var (
	// ErrLimitReached rejects profile creation beyond the per-scope cap
	ErrLimitReached = fmt.Errorf("at most %d board profiles per milestone", model.MaxProfiles)

	// ErrNotFound indicates an unknown profile id
	ErrNotFound = errors.New("profile not found")

	// ErrEmptyTitle rejects profiles without a title
	ErrEmptyTitle = errors.New("profile title must not be empty")
)

// Store wraps a ProfileSet with the mutation rules. Persistence of the
// set is the caller's concern.
type Store struct {
	set *model.ProfileSet
}

// NewStore wraps the given set; a nil set starts empty
func NewStore(set *model.ProfileSet) *Store {
	if set == nil {
		set = model.NewProfileSet()
	}
	if set.Profiles == nil {
		set.Profiles = make(map[string]model.BoardProfile)
	}
	return &Store{set: set}
}

// Set exposes the underlying ProfileSet for persistence
func (s *Store) Set() *model.ProfileSet {
	return s.set
}

// Active returns the active profile, if any
func (s *Store) Active() (model.BoardProfile, bool) {
	return s.set.Active()
}

// Create adds a new profile and makes it active. Fails with
// ErrLimitReached when the scope already holds the maximum.
func (s *Store) Create(title string, labels []string) (model.BoardProfile, error) {
	if strings.TrimSpace(title) == "" {
		return model.BoardProfile{}, ErrEmptyTitle
	}
	if len(s.set.Profiles) >= model.MaxProfiles {
		return model.BoardProfile{}, ErrLimitReached
	}
	p := model.BoardProfile{
		ID:     s.nextID(),
		Title:  strings.TrimSpace(title),
		Labels: append([]string(nil), labels...),
	}
	s.set.Profiles[p.ID] = p
	s.set.ActiveID = p.ID
	return p, nil
}

// Update replaces a profile's title and ordered label list
func (s *Store) Update(id, title string, labels []string) error {
	p, ok := s.set.Profiles[id]
	if !ok {
		return ErrNotFound
	}
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	p.Title = strings.TrimSpace(title)
	p.Labels = append([]string(nil), labels...)
	s.set.Profiles[id] = p
	return nil
}

// Delete removes a profile. Deleting the active profile activates the
// first remaining profile in sorted id order, or none if the set is now
// empty.
func (s *Store) Delete(id string) error {
	if _, ok := s.set.Profiles[id]; !ok {
		return ErrNotFound
	}
	delete(s.set.Profiles, id)
	if s.set.ActiveID == id {
		s.set.ActiveID = ""
		if ids := s.set.IDs(); len(ids) > 0 {
			s.set.ActiveID = ids[0]
		}
	}
	return nil
}

// SwitchActive activates the given profile
func (s *Store) SwitchActive(id string) error {
	if _, ok := s.set.Profiles[id]; !ok {
		return ErrNotFound
	}
	s.set.ActiveID = id
	return nil
}

// Bootstrap synthesizes the DEFAULT profile from the most frequently used
// non-alternative labels when the scope has no profiles yet. Returns
// false when a profile already exists or when there is no usable label at
// all; in the latter case the board renders its empty state instead.
func (s *Store) Bootstrap(idx *index.Index) (model.BoardProfile, bool) {
	if len(s.set.Profiles) > 0 {
		return model.BoardProfile{}, false
	}

	collector := topk.New(BootstrapLabelCount, func(a, b model.Label) bool {
		return a.Text < b.Text
	})
	for _, l := range idx.UsableLabels() {
		if l.Count > 0 {
			collector.Add(l, float64(l.Count))
		}
	}
	top := collector.Results()
	if len(top) == 0 {
		return model.BoardProfile{}, false
	}

	labels := make([]string, len(top))
	for i, l := range top {
		labels[i] = l.ID
	}
	p, err := s.Create(BootstrapTitle, labels)
	if err != nil {
		return model.BoardProfile{}, false
	}
	return p, true
}

func (s *Store) nextID() string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("board-%d", n)
		if _, taken := s.set.Profiles[id]; !taken {
			return id
		}
	}
}
