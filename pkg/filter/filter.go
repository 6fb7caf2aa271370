// Package filter decides which issues are visible for a given FilterState
// and computes the contextual facet counts shown in the pickers.
//
// The facets combine as independent short-circuiting predicates ANDed at
// the top level. Two label predicates exist on purpose and must stay
// separate: HasAllLabels (flat view, AND across the selection) and
// MatchesAnyLabel (board view, OR across the selection including the
// card's implicit column label). Conflating them is the most likely
// source of regression.
package filter

import (
	"strings"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// StatusFn resolves an issue's classified lifecycle status. The hide-closed
// facet is the only one that needs it.
type StatusFn func(*model.Issue) model.Status

// Evaluator applies a FilterState to issues of one indexed collection
type Evaluator struct {
	idx    *index.Index
	status StatusFn
}

// New creates an Evaluator over the given collection index. status may be
// nil when the caller never uses the hide-closed facet.
func New(idx *index.Index, status StatusFn) *Evaluator {
	return &Evaluator{idx: idx, status: status}
}

// Evaluate reports whether the issue passes every active facet.
// Hide-closed is evaluated last; it is independent of the other facets.
func (e *Evaluator) Evaluate(issue *model.Issue, state *model.FilterState) bool {
	if !e.MatchesSearch(issue, state.SearchTerms()) {
		return false
	}
	if state.Assignee != "" && !e.MatchesAssignee(issue, state.Assignee) {
		return false
	}
	if !HasAllLabels(issue, state.Labels) {
		return false
	}
	if state.UnassignedOnly && issue.Assignee != "" {
		return false
	}
	if state.HideClosed && e.status != nil && e.status(issue).IsDone() {
		return false
	}
	return true
}

// EvaluateIgnoringSearch applies every facet except free-text search.
// Board composition uses this: search is applied to the rendered cards
// afterwards, not at composition time.
func (e *Evaluator) EvaluateIgnoringSearch(issue *model.Issue, state *model.FilterState) bool {
	if state.Search == "" {
		return e.Evaluate(issue, state)
	}
	noSearch := state.Clone()
	noSearch.Search = ""
	return e.Evaluate(issue, &noSearch)
}

// MatchesSearch reports whether the title contains every term.
// Case-insensitive substring match, not tokenized or fuzzy.
func (e *Evaluator) MatchesSearch(issue *model.Issue, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	title := strings.ToLower(issue.Title)
	for _, term := range terms {
		if !strings.Contains(title, term) {
			return false
		}
	}
	return true
}

// MatchesAssignee reports whether the issue is assigned to name via the
// real channel (exact name match, case-insensitive) or the alternative
// channel (a label whose text equals prefix+name exactly).
func (e *Evaluator) MatchesAssignee(issue *model.Issue, name string) bool {
	if issue.Assignee != "" && strings.EqualFold(issue.Assignee, name) {
		return true
	}
	for _, id := range e.idx.AltLabelIDs(name) {
		if issue.HasLabel(id) {
			return true
		}
	}
	return false
}

// HasAllLabels is the flat-view label predicate: the issue must carry
// every selected label (AND semantics).
func HasAllLabels(issue *model.Issue, selected []string) bool {
	for _, id := range selected {
		if !issue.HasLabel(id) {
			return false
		}
	}
	return true
}

// MatchesAnyLabel is the board-view label predicate: a card is shown if
// its owning column's label, treated as an implicit label of the card, or
// any of its real labels matches any one of the selected labels
// (OR semantics). Intentionally looser than HasAllLabels: column
// membership already encodes one label match.
func MatchesAnyLabel(issue *model.Issue, columnLabel string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, id := range selected {
		if id == columnLabel || issue.HasLabel(id) {
			return true
		}
	}
	return false
}

// AssigneeCount pairs an assignee with its contextual count
type AssigneeCount struct {
	model.Assignee
	Count int
}

// LabelCount pairs a label with its contextual count
type LabelCount struct {
	model.Label
	Count int
}

// AssigneeCounts computes the contextual count for every assignee: the
// number of issues that would be visible if the assignee facet alone were
// cleared and that assignee then selected. Assignees whose count is zero
// are dropped unless currently selected; the selection is never hidden by
// its own zero count.
func (e *Evaluator) AssigneeCounts(issues []model.Issue, state *model.FilterState) []AssigneeCount {
	cleared := state.Clone()
	cleared.Assignee = ""

	var out []AssigneeCount
	for _, a := range e.idx.Assignees() {
		n := 0
		for i := range issues {
			if e.Evaluate(&issues[i], &cleared) && e.MatchesAssignee(&issues[i], a.Name) {
				n++
			}
		}
		if n == 0 && !strings.EqualFold(a.Name, state.Assignee) {
			continue
		}
		out = append(out, AssigneeCount{Assignee: a, Count: n})
	}
	return out
}

// LabelCounts computes the contextual count for every label: the number of
// issues that would be visible if the label facet alone were cleared and
// that single label then selected. Zero-count labels are dropped unless
// currently selected.
func (e *Evaluator) LabelCounts(issues []model.Issue, state *model.FilterState) []LabelCount {
	cleared := state.Clone()
	cleared.Labels = nil

	var out []LabelCount
	for _, l := range e.idx.Labels() {
		n := 0
		for i := range issues {
			if e.Evaluate(&issues[i], &cleared) && issues[i].HasLabel(l.ID) {
				n++
			}
		}
		if n == 0 && !state.HasLabel(l.ID) {
			continue
		}
		out = append(out, LabelCount{Label: l, Count: n})
	}
	return out
}

// Visible returns the issues passing the full filter, preserving input
// order
func (e *Evaluator) Visible(issues []model.Issue, state *model.FilterState) []model.Issue {
	var out []model.Issue
	for i := range issues {
		if e.Evaluate(&issues[i], state) {
			out = append(out, issues[i])
		}
	}
	return out
}
