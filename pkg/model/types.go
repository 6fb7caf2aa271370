package model

import (
	"fmt"
	"sort"
	"strings"
)

// Status represents the lifecycle state of an issue
type Status string

const (
	StatusUnstarted Status = "unstarted"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is one of the known lifecycle states
func (s Status) IsValid() bool {
	switch s {
	case StatusUnstarted, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// IsDone returns true if the status means the issue is finished
func (s Status) IsDone() bool {
	return s == StatusCompleted
}

// Evidence carries the raw rendering signals captured for an issue at
// extraction time. The classifier degrades through these when the issue is
// not covered by the structural section map.
type Evidence struct {
	TextDecoration string   `json:"text_decoration,omitempty"` // e.g. "line-through"
	StateBadge     string   `json:"state_badge,omitempty"`     // e.g. "Closed"
	CSSClasses     []string `json:"css_classes,omitempty"`
	Icons          []string `json:"icons,omitempty"`
	MetaText       string   `json:"meta_text,omitempty"`
	RawMarkup      string   `json:"raw_markup,omitempty"`
	ContainerClass string   `json:"container_class,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
}

// Issue is a single work item from the milestone export.
// Read-only to the engine; identity is unique within one collection load.
type Issue struct {
	ID       string   `json:"id"` // stable URL or numeric id
	Title    string   `json:"title"`
	Assignee string   `json:"assignee,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Section  string   `json:"section,omitempty"` // structural grouping, if any
	Evidence Evidence `json:"evidence,omitempty"`
}

// Validate checks that the issue carries the minimum required fields
func (i *Issue) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue missing id")
	}
	return nil
}

// HasLabel reports whether the issue carries the given label identifier
func (i *Issue) HasLabel(labelID string) bool {
	for _, l := range i.Labels {
		if l == labelID {
			return true
		}
	}
	return false
}

// Label is the metadata for one label identifier as seen across the
// current collection
type Label struct {
	ID    string `json:"id"`   // opaque key used for matching
	Text  string `json:"text"` // display text, may differ after decoding
	Color string `json:"color,omitempty"`
	Count int    `json:"-"` // usage count, recomputed per collection

	// IsAlternativeAssignee is set when the display text starts with the
	// configured alternative-assignee prefix.
	IsAlternativeAssignee bool `json:"-"`
}

// Assignee is one addressable name in the unified assignee namespace.
// Alternative assignees are derived from prefixed labels.
type Assignee struct {
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	IsAlternative bool   `json:"-"`
}

// FilterState is the current selection across all facets. There is exactly
// one logical instance per milestone scope; all mutation funnels through
// the engine controller.
type FilterState struct {
	Assignee       string   `json:"assignee,omitempty"`
	Labels         []string `json:"labels,omitempty"` // AND semantics, order irrelevant
	Search         string   `json:"search,omitempty"`
	UnassignedOnly bool     `json:"unassigned_only,omitempty"`
	HideClosed     bool     `json:"hide_closed,omitempty"`
}

// IsEmpty reports whether no facet is active
func (f *FilterState) IsEmpty() bool {
	return f.Assignee == "" && len(f.Labels) == 0 && f.Search == "" &&
		!f.UnassignedOnly && !f.HideClosed
}

// HasLabel reports whether the label is currently selected
func (f *FilterState) HasLabel(labelID string) bool {
	for _, l := range f.Labels {
		if l == labelID {
			return true
		}
	}
	return false
}

// ToggleLabel adds the label to the selection if absent, removes it if
// present
func (f *FilterState) ToggleLabel(labelID string) {
	for i, l := range f.Labels {
		if l == labelID {
			f.Labels = append(f.Labels[:i], f.Labels[i+1:]...)
			return
		}
	}
	f.Labels = append(f.Labels, labelID)
}

// SearchTerms splits the search phrase on whitespace into lowercase terms.
// All terms must appear in a title for the search facet to pass.
func (f *FilterState) SearchTerms() []string {
	return strings.Fields(strings.ToLower(f.Search))
}

// Clone returns a deep copy of the state
func (f *FilterState) Clone() FilterState {
	c := *f
	c.Labels = append([]string(nil), f.Labels...)
	return c
}

// Equal compares two states facet by facet. Label selection order is
// irrelevant (AND semantics).
func (f *FilterState) Equal(other *FilterState) bool {
	if f.Assignee != other.Assignee || f.Search != other.Search ||
		f.UnassignedOnly != other.UnassignedOnly || f.HideClosed != other.HideClosed {
		return false
	}
	if len(f.Labels) != len(other.Labels) {
		return false
	}
	a := append([]string(nil), f.Labels...)
	b := append([]string(nil), other.Labels...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BoardProfile is a named, ordered set of labels defining one board
// configuration. Column order follows label order.
type BoardProfile struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
}

// MaxProfiles is the per-scope cap on stored board profiles
const MaxProfiles = 5

// ProfileSet holds all board profiles for one milestone scope plus the
// active selection. At most one profile is active.
type ProfileSet struct {
	Profiles map[string]BoardProfile `json:"profiles"`
	ActiveID string                  `json:"active_id,omitempty"`
}

// NewProfileSet returns an empty set
func NewProfileSet() *ProfileSet {
	return &ProfileSet{Profiles: make(map[string]BoardProfile)}
}

// Active returns the active profile, if any
func (p *ProfileSet) Active() (BoardProfile, bool) {
	if p.ActiveID == "" {
		return BoardProfile{}, false
	}
	prof, ok := p.Profiles[p.ActiveID]
	return prof, ok
}

// IDs returns all profile ids in sorted order
func (p *ProfileSet) IDs() []string {
	ids := make([]string, 0, len(p.Profiles))
	for id := range p.Profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
