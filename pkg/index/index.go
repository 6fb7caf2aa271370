// Package index builds the label and assignee metadata for one collection
// load: per-label usage counts, the alternative-assignee channel encoded
// as prefixed labels, and the unified assignee namespace.
package index

import (
	"sort"
	"strings"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// DefaultAltPrefix marks labels that encode an alternative assignee
const DefaultAltPrefix = "👤::"

// Index is the derived label/assignee view of one collection. Rebuilt
// whenever the collection is rebuilt; read-only afterwards.
type Index struct {
	labels    []model.Label
	labelByID map[string]int // position in labels
	assignees []model.Assignee
	prefix    string

	// altLabelIDs maps an alternative assignee name to the ids of the
	// labels that encode it.
	altLabelIDs map[string][]string
}

// Build constructs the index from the extracted collection. Labels and
// assignees arrive deduplicated from the extractor; usage counts and the
// alternative channel are computed here.
func Build(issues []model.Issue, labels []model.Label, assignees []model.Assignee, altPrefix string) *Index {
	if altPrefix == "" {
		altPrefix = DefaultAltPrefix
	}

	idx := &Index{
		labels:      make([]model.Label, len(labels)),
		labelByID:   make(map[string]int, len(labels)),
		prefix:      altPrefix,
		altLabelIDs: make(map[string][]string),
	}
	copy(idx.labels, labels)

	// Usage counts over the current collection
	counts := make(map[string]int)
	for i := range issues {
		for _, id := range issues[i].Labels {
			counts[id]++
		}
	}

	for i := range idx.labels {
		l := &idx.labels[i]
		idx.labelByID[l.ID] = i
		l.Count = counts[l.ID]
		if name, ok := strings.CutPrefix(l.Text, altPrefix); ok && name != "" {
			l.IsAlternativeAssignee = true
			idx.altLabelIDs[name] = append(idx.altLabelIDs[name], l.ID)
		}
	}

	// Union real and alternative assignees into one addressable namespace,
	// deduplicated by name. Real assignments win the avatar.
	seen := make(map[string]bool, len(assignees))
	for _, a := range assignees {
		if a.Name == "" || seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		idx.assignees = append(idx.assignees, a)
	}
	altNames := make([]string, 0, len(idx.altLabelIDs))
	for name := range idx.altLabelIDs {
		if !seen[name] {
			altNames = append(altNames, name)
		}
	}
	sort.Strings(altNames)
	for _, name := range altNames {
		idx.assignees = append(idx.assignees, model.Assignee{Name: name, IsAlternative: true})
	}

	return idx
}

// Labels returns all labels in extraction order with usage counts
func (x *Index) Labels() []model.Label {
	return x.labels
}

// Label looks up one label by identifier
func (x *Index) Label(id string) (model.Label, bool) {
	i, ok := x.labelByID[id]
	if !ok {
		return model.Label{}, false
	}
	return x.labels[i], true
}

// Assignees returns the unified assignee namespace: structurally assigned
// names first (extraction order), then alternative names sorted by name.
func (x *Index) Assignees() []model.Assignee {
	return x.assignees
}

// AltPrefix returns the configured alternative-assignee prefix
func (x *Index) AltPrefix() string {
	return x.prefix
}

// IsAlternativeLabel reports whether the label encodes an alternative
// assignee
func (x *Index) IsAlternativeLabel(id string) bool {
	l, ok := x.Label(id)
	return ok && l.IsAlternativeAssignee
}

// AltLabelIDs returns the label ids encoding the given assignee name via
// the alternative channel. The match is exact: label text equals
// prefix+name, never a substring.
func (x *Index) AltLabelIDs(name string) []string {
	return x.altLabelIDs[name]
}

// UsableLabels returns non-alternative labels, for board profile
// bootstrapping
func (x *Index) UsableLabels() []model.Label {
	var out []model.Label
	for _, l := range x.labels {
		if !l.IsAlternativeAssignee {
			out = append(out, l)
		}
	}
	return out
}
