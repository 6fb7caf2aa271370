package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// ProfileForm is the create/edit overlay for board profiles
type ProfileForm struct {
	form *huh.Form

	// EditingID is the profile being edited, empty when creating
	EditingID string

	title  string
	labels []string
}

// NewProfileForm builds the form. existing is nil when creating a new
// profile; its labels preselect the multi-select when editing.
func NewProfileForm(idx *index.Index, existing *model.BoardProfile) *ProfileForm {
	f := &ProfileForm{}
	if existing != nil {
		f.EditingID = existing.ID
		f.title = existing.Title
		f.labels = append([]string(nil), existing.Labels...)
	}

	var opts []huh.Option[string]
	for _, l := range idx.UsableLabels() {
		opts = append(opts, huh.NewOption(l.Text, l.ID))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile title").
				Value(&f.title),
			huh.NewMultiSelect[string]().
				Title("Column labels (picked order becomes column order)").
				Options(opts...).
				Value(&f.labels),
		),
	)
	return f
}

// Init starts the form
func (f *ProfileForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update forwards messages to the form
func (f *ProfileForm) Update(msg tea.Msg) tea.Cmd {
	next, cmd := f.form.Update(msg)
	if form, ok := next.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

// View renders the form
func (f *ProfileForm) View() string {
	return f.form.View()
}

// Done reports whether the user submitted the form
func (f *ProfileForm) Done() bool {
	return f.form.State == huh.StateCompleted
}

// Aborted reports whether the user cancelled the form
func (f *ProfileForm) Aborted() bool {
	return f.form.State == huh.StateAborted
}

// Result returns the submitted title and ordered label list
func (f *ProfileForm) Result() (title string, labels []string) {
	return f.title, f.labels
}
