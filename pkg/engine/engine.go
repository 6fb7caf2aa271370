// Package engine is the single controller that owns the filter state and
// the profile set for one milestone scope.
//
// Every mutation funnels through it: the engine persists the new state,
// then recomputes whatever the mutation invalidates. Mutations that
// change which issues qualify for the board (assignee, label set,
// unassigned-only) force a full recomposition because column claims must
// be redone; free-text search and hide-closed are cheap visibility
// toggles applied when the columns are read. Recomputation is idempotent:
// running it twice with the same state yields the same result, which is
// what stands in for cancellation. A superseding mutation simply
// overwrites the effects of a stale one.
package engine

import (
	"errors"
	"time"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/classify"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/filter"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/loader"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/profile"
)

// ViewMode selects between the flat status-grouped list and the board
type ViewMode int

const (
	ViewFlat ViewMode = iota
	ViewBoard
)

// ErrBoardNotReady reports that the board precondition did not settle
// within the retry budget. Board composition is best-effort; callers may
// swallow this and stay on the flat view.
var ErrBoardNotReady = errors.New("board precondition not met after retries")

// Persister is the storage collaborator. All load results are best-effort:
// absent means fall back to defaults.
type Persister interface {
	SaveFilterState(scope string, state *model.FilterState) error
	LoadFilterState(scope string) (*model.FilterState, bool)
	SaveProfiles(scope string, set *model.ProfileSet) error
	LoadProfiles(scope string) (*model.ProfileSet, bool)
	SaveViewMode(scope string, board bool) error
	LoadViewMode(scope string) (board, ok bool)
}

// Options configures an Engine
type Options struct {
	Scope         string // milestone scope key
	AltPrefix     string // alternative-assignee label prefix
	SettleRetries int    // board precondition retry budget
	SettleBackoff time.Duration
	Persist       Persister // optional

	// OnFilterChanged fires after every filter mutation has been
	// persisted and recomputed.
	OnFilterChanged func(model.FilterState)
	// OnViewModeChanged fires after a view switch.
	OnViewModeChanged func(ViewMode)
}

// Engine reconciles the filter state, the classified collection, and the
// composed board. Single-threaded by design: there is exactly one logical
// actor driving mutations.
type Engine struct {
	opts Options

	issues     []model.Issue
	idx        *index.Index
	classifier *classify.Classifier
	eval       *filter.Evaluator
	composer   *board.Composer

	profiles *profile.Store
	state    model.FilterState
	mode     ViewMode

	columns []board.Column // composed, pre-visibility
}

// New creates an Engine and restores persisted state for the scope.
// Stale or malformed records silently fall back to defaults.
func New(opts Options) *Engine {
	if opts.SettleRetries <= 0 {
		opts.SettleRetries = 5
	}
	if opts.SettleBackoff <= 0 {
		opts.SettleBackoff = 200 * time.Millisecond
	}
	e := &Engine{
		opts:       opts,
		classifier: classify.New(),
		profiles:   profile.NewStore(nil),
	}
	if p := opts.Persist; p != nil {
		if state, ok := p.LoadFilterState(opts.Scope); ok {
			e.state = *state
		}
		if set, ok := p.LoadProfiles(opts.Scope); ok {
			e.profiles = profile.NewStore(set)
		}
		if boardMode, ok := p.LoadViewMode(opts.Scope); ok && boardMode {
			e.mode = ViewBoard
		}
	}
	return e
}

// Refresh replaces the collection snapshot: rebuilds the structural
// status map, the label/assignee index, and the composed board. Must be
// called once per collection load before anything is read.
func (e *Engine) Refresh(col *loader.Collection) {
	if col == nil {
		col = &loader.Collection{}
	}
	e.issues = col.Issues
	e.classifier.Rebuild(col.Issues)
	e.idx = index.Build(col.Issues, col.Labels, col.Assignees, e.opts.AltPrefix)
	e.eval = filter.New(e.idx, e.StatusOf)
	e.composer = board.NewComposer(e.idx, e.eval)
	// A scope restored straight into board mode may predate its profiles;
	// bootstrap here so the board is never empty for lack of one.
	if e.mode == ViewBoard {
		if _, created := e.profiles.Bootstrap(e.idx); created {
			e.persistProfiles()
		}
	}
	e.recompose()
}

// StatusOf classifies one issue against the current structural map
func (e *Engine) StatusOf(issue *model.Issue) model.Status {
	return e.classifier.Classify(issue)
}

// State returns a copy of the current filter state
func (e *Engine) State() model.FilterState {
	return e.state.Clone()
}

// Mode returns the current view mode
func (e *Engine) Mode() ViewMode {
	return e.mode
}

// Index exposes the current collection index
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Issues returns the full collection snapshot
func (e *Engine) Issues() []model.Issue {
	return e.issues
}

// Profiles exposes the profile store. Mutate through the engine's
// profile methods so persistence and recomposition stay in sync.
func (e *Engine) Profiles() *profile.Store {
	return e.profiles
}

// SetAssignee selects (or with "", clears) the assignee facet
func (e *Engine) SetAssignee(name string) {
	if e.state.Assignee == name {
		return
	}
	e.state.Assignee = name
	e.filterChanged(true)
}

// ToggleLabel flips one label in the selected set
func (e *Engine) ToggleLabel(labelID string) {
	e.state.ToggleLabel(labelID)
	e.filterChanged(true)
}

// ClearLabels drops the whole label selection
func (e *Engine) ClearLabels() {
	if len(e.state.Labels) == 0 {
		return
	}
	e.state.Labels = nil
	e.filterChanged(true)
}

// SetSearch updates the free-text phrase. Cheap: no recomposition.
func (e *Engine) SetSearch(q string) {
	if e.state.Search == q {
		return
	}
	e.state.Search = q
	e.filterChanged(false)
}

// SetUnassignedOnly toggles the unassigned-only quick filter
func (e *Engine) SetUnassignedOnly(on bool) {
	if e.state.UnassignedOnly == on {
		return
	}
	e.state.UnassignedOnly = on
	e.filterChanged(true)
}

// SetHideClosed toggles the hide-closed quick filter. Cheap: visibility
// only.
func (e *Engine) SetHideClosed(on bool) {
	if e.state.HideClosed == on {
		return
	}
	e.state.HideClosed = on
	e.filterChanged(false)
}

// ResetFilters clears every facet at once
func (e *Engine) ResetFilters() {
	if e.state.IsEmpty() {
		return
	}
	e.state = model.FilterState{}
	e.filterChanged(true)
}

func (e *Engine) filterChanged(recompose bool) {
	if p := e.opts.Persist; p != nil {
		_ = p.SaveFilterState(e.opts.Scope, &e.state)
	}
	if recompose {
		e.recompose()
	}
	if e.opts.OnFilterChanged != nil {
		e.opts.OnFilterChanged(e.state.Clone())
	}
}

// SetViewMode switches between flat and board rendering. Entering board
// mode waits for the precondition to settle (bounded retries) and
// bootstraps a DEFAULT profile when the scope has none.
func (e *Engine) SetViewMode(mode ViewMode, precondition func() bool) error {
	if e.mode == mode {
		return nil
	}
	var err error
	if mode == ViewBoard {
		if err = e.settle(precondition); err == nil {
			if _, created := e.profiles.Bootstrap(e.idx); created {
				e.persistProfiles()
			}
			e.recompose()
		}
	}
	if err == nil {
		e.mode = mode
		if p := e.opts.Persist; p != nil {
			_ = p.SaveViewMode(e.opts.Scope, mode == ViewBoard)
		}
		if e.opts.OnViewModeChanged != nil {
			e.opts.OnViewModeChanged(mode)
		}
	}
	return err
}

// settle polls the board precondition with fixed backoff until it holds
// or the retry budget runs out.
func (e *Engine) settle(precondition func() bool) error {
	if precondition == nil {
		return nil
	}
	for attempt := 0; attempt <= e.opts.SettleRetries; attempt++ {
		if precondition() {
			return nil
		}
		if attempt < e.opts.SettleRetries {
			time.Sleep(e.opts.SettleBackoff)
		}
	}
	return ErrBoardNotReady
}

// recompose rebuilds the board columns from scratch. No-op without a
// collection or an active profile.
func (e *Engine) recompose() {
	e.columns = nil
	if e.composer == nil {
		return
	}
	active, ok := e.profiles.Active()
	if !ok {
		return
	}
	e.columns = e.composer.Compose(e.issues, active, &e.state)
}

// VisibleIssues returns the issues passing the full filter, in
// collection order
func (e *Engine) VisibleIssues() []model.Issue {
	if e.eval == nil {
		return nil
	}
	return e.eval.Visible(e.issues, &e.state)
}

// Columns returns the composed columns with the visibility pass applied
func (e *Engine) Columns() []board.Column {
	if e.composer == nil {
		return nil
	}
	return e.composer.ApplyVisibility(e.columns, &e.state, e.StatusOf)
}

// ColumnAssignment maps each composed issue id to its column title
func (e *Engine) ColumnAssignment() map[string]string {
	return board.Assignment(e.columns)
}

// FacetCounts carries the contextual picker counts
type FacetCounts struct {
	Assignees []filter.AssigneeCount
	Labels    []filter.LabelCount
}

// GetFacetCounts computes the contextual counts for both pickers
func (e *Engine) GetFacetCounts() FacetCounts {
	if e.eval == nil {
		return FacetCounts{}
	}
	return FacetCounts{
		Assignees: e.eval.AssigneeCounts(e.issues, &e.state),
		Labels:    e.eval.LabelCounts(e.issues, &e.state),
	}
}

// CreateProfile adds a board profile and composes against it
func (e *Engine) CreateProfile(title string, labels []string) (model.BoardProfile, error) {
	p, err := e.profiles.Create(title, labels)
	if err != nil {
		return model.BoardProfile{}, err
	}
	e.persistProfiles()
	e.recompose()
	return p, nil
}

// UpdateProfile edits a profile's title and label columns
func (e *Engine) UpdateProfile(id, title string, labels []string) error {
	if err := e.profiles.Update(id, title, labels); err != nil {
		return err
	}
	e.persistProfiles()
	e.recompose()
	return nil
}

// DeleteProfile removes a profile; deleting the active one activates an
// arbitrary remaining profile, or none.
func (e *Engine) DeleteProfile(id string) error {
	if err := e.profiles.Delete(id); err != nil {
		return err
	}
	e.persistProfiles()
	e.recompose()
	return nil
}

// SwitchProfile activates a different board profile
func (e *Engine) SwitchProfile(id string) error {
	if err := e.profiles.SwitchActive(id); err != nil {
		return err
	}
	e.persistProfiles()
	e.recompose()
	return nil
}

func (e *Engine) persistProfiles() {
	if p := e.opts.Persist; p != nil {
		_ = p.SaveProfiles(e.opts.Scope, e.profiles.Set())
	}
}
