// Package classify assigns each issue a lifecycle status.
//
// The authoritative source is the structural section map built once per
// collection refresh. Issues not covered by it fall through an ordered
// cascade of evidence probes of decreasing reliability; the first probe
// that returns a status wins. Host pages render closed state in wildly
// inconsistent ways, so the cascade degrades through increasingly weak
// signals instead of failing closed.
package classify

import (
	"regexp"
	"strings"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// StructuralMap is an explicit derived artifact mapping issue id to the
// status of the structural grouping it was extracted from. It must be
// rebuilt whenever the source collection is rebuilt; a stale map produces
// silently wrong classifications.
type StructuralMap struct {
	byID map[string]model.Status
}

// BuildStructuralMap scans the collection's section membership and records
// a status for every issue found in one of the three known groupings.
func BuildStructuralMap(issues []model.Issue) *StructuralMap {
	m := &StructuralMap{byID: make(map[string]model.Status, len(issues))}
	for i := range issues {
		if s, ok := sectionStatus(issues[i].Section); ok {
			m.byID[issues[i].ID] = s
		}
	}
	return m
}

// Lookup returns the structurally derived status for the issue, if any
func (m *StructuralMap) Lookup(id string) (model.Status, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// Len returns the number of structurally classified issues
func (m *StructuralMap) Len() int {
	return len(m.byID)
}

func sectionStatus(section string) (model.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(section)) {
	case "unstarted", "open", "todo":
		return model.StatusUnstarted, true
	case "ongoing", "in progress", "doing":
		return model.StatusOngoing, true
	case "closed", "completed", "done":
		return model.StatusCompleted, true
	}
	return "", false
}

// Probe inspects one evidence channel and reports a status when the
// channel is conclusive. Probes are independent and individually testable.
type Probe struct {
	Name string
	Fn   func(*model.Issue) (model.Status, bool)
}

// Classifier resolves issue statuses using the structural map first and
// the probe cascade second.
type Classifier struct {
	structural *StructuralMap
	probes     []Probe
}

// New creates a Classifier with the default probe order. The structural
// map is absent until the first Rebuild.
func New() *Classifier {
	return &Classifier{probes: DefaultProbes()}
}

// Rebuild regenerates the structural map from the current collection.
// Call exactly once per collection refresh, before any Classify call that
// should see the new collection.
func (c *Classifier) Rebuild(issues []model.Issue) {
	c.structural = BuildStructuralMap(issues)
}

// Ready reports whether the structural map has been built at least once
func (c *Classifier) Ready() bool {
	return c.structural != nil
}

// Classify returns the lifecycle status for the issue.
// Precedence: structural map, then the evidence probes in order, then the
// assignee-avatar test, then unstarted.
func (c *Classifier) Classify(issue *model.Issue) model.Status {
	if c.structural != nil {
		if s, ok := c.structural.Lookup(issue.ID); ok {
			return s
		}
	}
	for _, p := range c.probes {
		if s, ok := p.Fn(issue); ok {
			return s
		}
	}
	if hasRealAvatar(issue) {
		return model.StatusOngoing
	}
	return model.StatusUnstarted
}

// closedStatePattern matches markup that binds a closed/completed keyword
// to a state-ish attribute or class, e.g. state="closed" or
// issuable-state-completed.
var closedStatePattern = regexp.MustCompile(`(?i)(state|status|issuable)[-_="':\s]{0,3}(closed|completed)`)

// DefaultProbes returns the evidence cascade in load-bearing order.
// The ordering is a design decision: each probe is strictly weaker
// evidence than the one before it.
func DefaultProbes() []Probe {
	return []Probe{
		{Name: "strikethrough", Fn: probeStrikethrough},
		{Name: "state-badge", Fn: probeStateBadge},
		{Name: "css-classes", Fn: probeCSSClasses},
		{Name: "iconography", Fn: probeIcons},
		{Name: "meta-keywords", Fn: probeMetaKeywords},
		{Name: "markup-pattern", Fn: probeMarkupPattern},
		{Name: "container", Fn: probeContainer},
		{Name: "cooccurrence", Fn: probeCooccurrence},
	}
}

func probeStrikethrough(issue *model.Issue) (model.Status, bool) {
	if strings.Contains(strings.ToLower(issue.Evidence.TextDecoration), "line-through") {
		return model.StatusCompleted, true
	}
	return "", false
}

func probeStateBadge(issue *model.Issue) (model.Status, bool) {
	badge := strings.ToLower(strings.TrimSpace(issue.Evidence.StateBadge))
	if badge == "closed" || badge == "completed" || badge == "done" {
		return model.StatusCompleted, true
	}
	return "", false
}

func probeCSSClasses(issue *model.Issue) (model.Status, bool) {
	for _, cls := range issue.Evidence.CSSClasses {
		lc := strings.ToLower(cls)
		if strings.Contains(lc, "closed") || strings.Contains(lc, "completed") {
			return model.StatusCompleted, true
		}
	}
	return "", false
}

func probeIcons(issue *model.Issue) (model.Status, bool) {
	for _, icon := range issue.Evidence.Icons {
		lc := strings.ToLower(icon)
		if strings.Contains(lc, "close") || strings.Contains(lc, "check-circle") {
			return model.StatusCompleted, true
		}
	}
	return "", false
}

func probeMetaKeywords(issue *model.Issue) (model.Status, bool) {
	meta := strings.ToLower(issue.Evidence.MetaText)
	if strings.Contains(meta, "closed") || strings.Contains(meta, "completed") {
		return model.StatusCompleted, true
	}
	return "", false
}

func probeMarkupPattern(issue *model.Issue) (model.Status, bool) {
	if closedStatePattern.MatchString(issue.Evidence.RawMarkup) {
		return model.StatusCompleted, true
	}
	return "", false
}

func probeContainer(issue *model.Issue) (model.Status, bool) {
	lc := strings.ToLower(issue.Evidence.ContainerClass)
	if strings.Contains(lc, "closed") || strings.Contains(lc, "completed") {
		return model.StatusCompleted, true
	}
	return "", false
}

// probeCooccurrence is the weakest signal: a closed keyword appearing
// anywhere in the subtree together with an issue/state keyword.
func probeCooccurrence(issue *model.Issue) (model.Status, bool) {
	text := strings.ToLower(issue.Evidence.RawMarkup + " " + issue.Evidence.MetaText)
	closed := strings.Contains(text, "closed") || strings.Contains(text, "completed")
	subject := strings.Contains(text, "issue") || strings.Contains(text, "state") ||
		strings.Contains(text, "status")
	if closed && subject {
		return model.StatusCompleted, true
	}
	return "", false
}

// placeholderMarkers identify avatar URLs that do not represent a real
// assignee identity
var placeholderMarkers = []string{"no_avatar", "default_avatar", "identicon", "placeholder"}

func hasRealAvatar(issue *model.Issue) bool {
	url := strings.ToLower(issue.Evidence.AvatarURL)
	if url == "" {
		return issue.Assignee != ""
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(url, marker) {
			return false
		}
	}
	return true
}
