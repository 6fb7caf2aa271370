// Package board partitions the filtered issue set into label-defined
// columns according to a board profile.
//
// Columns claim issues in configured label order, first match wins: an
// issue qualifying for several configured labels lands in the earliest
// column only. Whatever remains unclaimed goes to a single catch-all MISC
// column with no size limit, so composition is always a partition of the
// qualifying set.
//
// Free-text search and hide-closed never trigger recomposition; they are
// applied afterwards as a visibility pass over the already-composed cards
// (ApplyVisibility), which also hides columns whose visible count drops
// to zero without reassigning any card.
package board

import (
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/filter"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// MiscTitle is the display title of the catch-all column
const MiscTitle = "MISC"

// Column is one composed board column. Label is empty for the catch-all.
type Column struct {
	Label string
	Title string
	Cards []model.Issue
}

// IsMisc reports whether this is the catch-all column
func (c *Column) IsMisc() bool {
	return c.Label == ""
}

// Composer builds board columns from the active profile and filter state
type Composer struct {
	idx  *index.Index
	eval *filter.Evaluator
}

// NewComposer creates a Composer over one indexed collection
func NewComposer(idx *index.Index, eval *filter.Evaluator) *Composer {
	return &Composer{idx: idx, eval: eval}
}

// Compose partitions the qualifying issues into the profile's columns.
//
// The filter state is applied minus free-text search and hide-closed
// (those are visibility toggles, see ApplyVisibility). The label facet is
// evaluated with board semantics: OR across the selection, with the
// claiming column's label counting as an implicit label of its cards.
// Columns that end up empty are omitted. Deterministic under fixed input
// ordering.
func (c *Composer) Compose(issues []model.Issue, profile model.BoardProfile, state *model.FilterState) []Column {
	claimed := make(map[string]bool, len(issues))
	var cols []Column

	for _, labelID := range profile.Labels {
		col := Column{Label: labelID, Title: c.columnTitle(labelID)}
		for i := range issues {
			issue := &issues[i]
			if claimed[issue.ID] || !issue.HasLabel(labelID) {
				continue
			}
			if !c.qualifies(issue, state, labelID) {
				continue
			}
			claimed[issue.ID] = true
			col.Cards = append(col.Cards, *issue)
		}
		if len(col.Cards) > 0 {
			cols = append(cols, col)
		}
	}

	// Everything unclaimed that still qualifies lands in MISC, unbounded
	misc := Column{Title: MiscTitle}
	for i := range issues {
		issue := &issues[i]
		if claimed[issue.ID] || !c.qualifies(issue, state, "") {
			continue
		}
		misc.Cards = append(misc.Cards, *issue)
	}
	if len(misc.Cards) > 0 {
		cols = append(cols, misc)
	}

	return cols
}

// qualifies applies the composition-time facets: assignee,
// unassigned-only, and the board-mode label predicate.
func (c *Composer) qualifies(issue *model.Issue, state *model.FilterState, columnLabel string) bool {
	if state.Assignee != "" && !c.eval.MatchesAssignee(issue, state.Assignee) {
		return false
	}
	if state.UnassignedOnly && issue.Assignee != "" {
		return false
	}
	return filter.MatchesAnyLabel(issue, columnLabel, state.Labels)
}

func (c *Composer) columnTitle(labelID string) string {
	if l, ok := c.idx.Label(labelID); ok && l.Text != "" {
		return l.Text
	}
	return labelID
}

// ApplyVisibility filters the composed columns down to the cards passing
// the cheap visibility facets (search terms, hide-closed) and drops
// columns whose visible count is zero. Cards are never moved between
// columns here; running it twice yields the same result.
func (c *Composer) ApplyVisibility(cols []Column, state *model.FilterState, status filter.StatusFn) []Column {
	terms := state.SearchTerms()
	var out []Column
	for _, col := range cols {
		visible := Column{Label: col.Label, Title: col.Title}
		for i := range col.Cards {
			card := &col.Cards[i]
			if !c.eval.MatchesSearch(card, terms) {
				continue
			}
			if state.HideClosed && status != nil && status(card).IsDone() {
				continue
			}
			visible.Cards = append(visible.Cards, *card)
		}
		if len(visible.Cards) > 0 {
			out = append(out, visible)
		}
	}
	return out
}

// Assignment maps each composed issue id to its column title
func Assignment(cols []Column) map[string]string {
	out := make(map[string]string)
	for _, col := range cols {
		for i := range col.Cards {
			out[col.Cards[i].ID] = col.Title
		}
	}
	return out
}
