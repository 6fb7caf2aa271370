package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/analysis"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/board"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/engine"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/export"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/loader"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusList focus = iota
	focusBoard
	focusSearch
	focusAssigneePicker
	focusLabelPicker
	focusProfileSwitcher
	focusProfileForm
	focusDetail
	focusHelp
)

// ReloadMsg carries a freshly loaded collection after the export file
// settled
type ReloadMsg struct {
	Col *loader.Collection
}

// Model is the main Bubble Tea model for compass
type Model struct {
	eng     *engine.Engine
	theme   Theme
	summary analysis.Summary

	// Cached view data, rebuilt on every engine mutation
	visible []model.Issue
	columns []board.Column

	// Components
	searchInput textinput.Model
	boardView   BoardModel
	picker      PickerModel
	profileForm *ProfileForm
	detailVP    viewport.Model
	mdRenderer  *glamour.TermRenderer

	focused   focus
	listIndex int

	width  int
	height int
	ready  bool

	statusMsg     string
	statusIsError bool
}

// NewModel creates the UI over an engine that has already seen its first
// Refresh
func NewModel(eng *engine.Engine, theme Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "search titles..."
	ti.CharLimit = 120
	ti.Width = 32
	ti.Prompt = "🔍 "
	ti.SetValue(eng.State().Search)

	mdRenderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)

	m := Model{
		eng:         eng,
		theme:       theme,
		searchInput: ti,
		detailVP:    viewport.New(60, 20),
		mdRenderer:  mdRenderer,
	}
	if eng.Mode() == engine.ViewBoard {
		m.focused = focusBoard
	}
	m.refreshViews()
	m.summary = analysis.Summarize(eng.Issues(), eng.Index())
	m.boardView = NewBoardModel(m.columns, theme)
	return m
}

// refreshViews re-reads the engine's derived data after a mutation.
/// Idempotent: calling it twice without an intervening mutation changes
// nothing.
func (m *Model) refreshViews() {
	m.visible = m.eng.VisibleIssues()
	m.columns = m.eng.Columns()
	m.boardView.SetColumns(m.columns)
	if m.listIndex >= len(m.visible) {
		m.listIndex = len(m.visible) - 1
	}
	if m.listIndex < 0 {
		m.listIndex = 0
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ReloadMsg:
		m.eng.Refresh(msg.Col)
		m.summary = analysis.Summarize(m.eng.Issues(), m.eng.Index())
		m.refreshViews()
		m.setStatus(fmt.Sprintf("reloaded %d issues", len(m.eng.Issues())), false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.detailVP = viewport.New(min(msg.Width-8, 78), msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.statusIsError = false

		switch m.focused {
		case focusSearch:
			return m.updateSearch(msg)
		case focusAssigneePicker, focusLabelPicker, focusProfileSwitcher:
			return m.updatePicker(msg)
		case focusProfileForm:
			return m.updateProfileForm(msg)
		case focusDetail:
			return m.updateDetail(msg)
		case focusHelp:
			m.focused = m.baseFocus()
			return m, nil
		}

		if handled, next, cmd := m.updateGlobalKeys(msg); handled {
			return next, cmd
		}
		if m.focused == focusBoard {
			return m.updateBoardKeys(msg)
		}
		return m.updateListKeys(msg)
	}

	if m.focused == focusProfileForm && m.profileForm != nil {
		cmds = append(cmds, m.profileForm.Update(msg))
		return m, tea.Batch(cmds...)
	}

	return m, tea.Batch(cmds...)
}

// baseFocus is where overlays return to
func (m *Model) baseFocus() focus {
	if m.eng.Mode() == engine.ViewBoard {
		return focusBoard
	}
	return focusList
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m Model) updateGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return true, m, tea.Quit

	case "/":
		m.focused = focusSearch
		m.searchInput.Focus()
		return true, m, textinput.Blink

	case "b":
		m.toggleViewMode()
		return true, m, nil

	case "a":
		m.picker = NewAssigneePicker(m.eng.GetFacetCounts(), m.eng.State().Assignee, m.theme)
		m.focused = focusAssigneePicker
		return true, m, nil

	case "l":
		if m.focused != focusBoard { // board uses l for column navigation
			m.openLabelPicker()
			return true, m, nil
		}
	case "L":
		m.openLabelPicker()
		return true, m, nil

	case "u":
		m.eng.SetUnassignedOnly(!m.eng.State().UnassignedOnly)
		m.refreshViews()
		return true, m, nil

	case "x":
		m.eng.SetHideClosed(!m.eng.State().HideClosed)
		m.refreshViews()
		return true, m, nil

	case "r":
		m.eng.ResetFilters()
		m.searchInput.SetValue("")
		m.refreshViews()
		return true, m, nil

	case "p":
		m.openProfileSwitcher()
		return true, m, nil

	case "n":
		m.profileForm = NewProfileForm(m.eng.Index(), nil)
		m.focused = focusProfileForm
		return true, m, m.profileForm.Init()

	case "e":
		if active, ok := m.eng.Profiles().Active(); ok {
			m.profileForm = NewProfileForm(m.eng.Index(), &active)
			m.focused = focusProfileForm
			return true, m, m.profileForm.Init()
		}
		m.setStatus("no active profile to edit", true)
		return true, m, nil

	case "E":
		m.exportBoard("svg")
		return true, m, nil

	case "P":
		m.exportBoard("png")
		return true, m, nil

	case "C":
		m.copySelected()
		return true, m, nil

	case "?":
		m.focused = focusHelp
		return true, m, nil
	}
	return false, m, nil
}

func (m *Model) openLabelPicker() {
	state := m.eng.State()
	m.picker = NewLabelPicker(m.eng.GetFacetCounts(), state.HasLabel, m.theme)
	m.focused = focusLabelPicker
}

func (m *Model) openProfileSwitcher() {
	set := m.eng.Profiles().Set()
	items := make([]PickerItem, 0, len(set.Profiles))
	for _, id := range set.IDs() {
		p := set.Profiles[id]
		items = append(items, PickerItem{
			ID:       p.ID,
			Title:    p.Title,
			Count:    len(p.Labels),
			Selected: id == set.ActiveID,
		})
	}
	m.picker = PickerModel{title: "PROFILES  (⏎ activate · D delete)", items: items, theme: m.theme}
	m.focused = focusProfileSwitcher
}

func (m *Model) toggleViewMode() {
	if m.eng.Mode() == engine.ViewBoard {
		_ = m.eng.SetViewMode(engine.ViewFlat, nil)
		m.focused = focusList
		m.refreshViews()
		return
	}
	// Board composition is best-effort: if the collection never settles
	// we stay on the flat view.
	err := m.eng.SetViewMode(engine.ViewBoard, func() bool { return m.eng.Index() != nil })
	if err != nil {
		m.setStatus("board not ready, staying on list", true)
		return
	}
	m.focused = focusBoard
	m.refreshViews()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.focused = m.baseFocus()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live keystroke search: cheap visibility recompute, no recomposition
	m.eng.SetSearch(m.searchInput.Value())
	m.refreshViews()
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focused = m.baseFocus()
		return m, nil
	case "j", "down":
		m.picker.MoveDown()
		return m, nil
	case "k", "up":
		m.picker.MoveUp()
		return m, nil
	case "D":
		if m.focused == focusProfileSwitcher {
			if item, ok := m.picker.Current(); ok {
				if err := m.eng.DeleteProfile(item.ID); err != nil {
					m.setStatus(err.Error(), true)
				}
				m.openProfileSwitcher()
				m.refreshViews()
			}
		}
		return m, nil
	case "enter":
		item, ok := m.picker.Current()
		if !ok {
			m.focused = m.baseFocus()
			return m, nil
		}
		switch m.focused {
		case focusAssigneePicker:
			if item.Selected {
				m.eng.SetAssignee("") // toggle off
			} else {
				m.eng.SetAssignee(item.ID)
			}
			m.focused = m.baseFocus()
		case focusLabelPicker:
			m.eng.ToggleLabel(item.ID)
			// Stay open for multi-label selection; counts re-contextualize
			state := m.eng.State()
			idx := m.picker.index
			m.picker = NewLabelPicker(m.eng.GetFacetCounts(), state.HasLabel, m.theme)
			if idx < len(m.picker.items) {
				m.picker.index = idx
			}
		case focusProfileSwitcher:
			if err := m.eng.SwitchProfile(item.ID); err != nil {
				m.setStatus(err.Error(), true)
			}
			m.focused = m.baseFocus()
		}
		m.refreshViews()
		return m, nil
	}
	return m, nil
}

func (m Model) updateProfileForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.profileForm = nil
		m.focused = m.baseFocus()
		return m, nil
	}
	cmd := m.profileForm.Update(msg)

	if m.profileForm.Done() {
		title, labels := m.profileForm.Result()
		var err error
		if m.profileForm.EditingID != "" {
			err = m.eng.UpdateProfile(m.profileForm.EditingID, title, labels)
		} else {
			_, err = m.eng.CreateProfile(title, labels)
		}
		if err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus("profile saved", false)
		}
		m.profileForm = nil
		m.focused = m.baseFocus()
		m.refreshViews()
		return m, nil
	}
	if m.profileForm.Aborted() {
		m.profileForm = nil
		m.focused = m.baseFocus()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.focused = m.baseFocus()
		return m, nil
	case "j", "down":
		m.detailVP.LineDown(1)
	case "k", "up":
		m.detailVP.LineUp(1)
	}
	return m, nil
}

func (m Model) updateBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.boardView.MoveLeft()
	case "l", "right":
		m.boardView.MoveRight()
	case "j", "down":
		m.boardView.MoveDown()
	case "k", "up":
		m.boardView.MoveUp()
	case "home":
		m.boardView.MoveToTop()
	case "G", "end":
		m.boardView.MoveToBottom()
	case "enter":
		if sel := m.boardView.SelectedIssue(); sel != nil {
			m.showDetail(sel)
		}
	}
	return m, nil
}

func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.listIndex < len(m.visible)-1 {
			m.listIndex++
		}
	case "k", "up":
		if m.listIndex > 0 {
			m.listIndex--
		}
	case "home":
		m.listIndex = 0
	case "G", "end":
		if len(m.visible) > 0 {
			m.listIndex = len(m.visible) - 1
		}
	case "enter":
		if m.listIndex < len(m.visible) {
			m.showDetail(&m.visible[m.listIndex])
		}
	}
	return m, nil
}

func (m *Model) showDetail(issue *model.Issue) {
	var sb strings.Builder
	status := m.eng.StatusOf(issue)
	fmt.Fprintf(&sb, "## %s %s\n\n", StatusIcon(string(status)), issue.Title)
	fmt.Fprintf(&sb, "%s\n\n", issue.ID)
	fmt.Fprintf(&sb, "**Status:** %s\n\n", status)
	if issue.Assignee != "" {
		fmt.Fprintf(&sb, "**Assignee:** @%s\n\n", issue.Assignee)
	}
	if len(issue.Labels) > 0 {
		var texts []string
		for _, id := range issue.Labels {
			if l, ok := m.eng.Index().Label(id); ok {
				texts = append(texts, l.Text)
			} else {
				texts = append(texts, id)
			}
		}
		fmt.Fprintf(&sb, "**Labels:** %s\n\n", strings.Join(texts, ", "))
	}
	if cols := m.eng.ColumnAssignment(); cols[issue.ID] != "" {
		fmt.Fprintf(&sb, "**Board column:** %s\n", cols[issue.ID])
	}

	rendered := sb.String()
	if m.mdRenderer != nil {
		if md, err := m.mdRenderer.Render(rendered); err == nil {
			rendered = md
		}
	}
	m.detailVP.SetContent(rendered)
	m.detailVP.GotoTop()
	m.focused = focusDetail
}

func (m *Model) copySelected() {
	var issue *model.Issue
	if m.focused == focusBoard {
		issue = m.boardView.SelectedIssue()
	} else if m.listIndex < len(m.visible) {
		issue = &m.visible[m.listIndex]
	}
	if issue == nil {
		m.setStatus("nothing selected", true)
		return
	}
	if err := clipboard.WriteAll(issue.ID); err != nil {
		m.setStatus("clipboard unavailable", true)
		return
	}
	m.setStatus("copied "+Truncate(issue.ID, 40), false)
}

func (m *Model) exportBoard(format string) {
	cols := m.eng.Columns()
	if len(cols) == 0 {
		m.setStatus("no board to export", true)
		return
	}
	title := "Milestone Board"
	if active, ok := m.eng.Profiles().Active(); ok {
		title = active.Title
	}
	var err error
	var path string
	switch format {
	case "png":
		path = "board.png"
		err = export.WritePNG(path, cols, title)
	default:
		path = "board.svg"
		var f *os.File
		f, err = os.Create(path)
		if err == nil {
			err = export.WriteSVG(f, cols, title)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if err != nil {
		m.setStatus("export failed: "+err.Error(), true)
		return
	}
	m.setStatus("exported "+path, false)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.focused {
	case focusHelp:
		body = m.renderHelpOverlay()
	case focusDetail:
		body = m.renderDetailOverlay()
	case focusAssigneePicker, focusLabelPicker, focusProfileSwitcher:
		body = m.picker.View(m.width, m.height-1)
	case focusProfileForm:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center,
			m.profileForm.View())
	default:
		if m.eng.Mode() == engine.ViewBoard {
			body = m.boardView.View(m.width, m.height-1)
		} else {
			body = m.renderFlatView()
		}
	}

	footer := m.renderFooter()

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, footer))
}

func (m Model) renderDetailOverlay() string {
	t := m.theme
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(m.detailVP.View())
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelpOverlay() string {
	t := m.theme

	keyStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Width(10)
	descStyle := t.Renderer.NewStyle()
	sectionStyle := t.Renderer.NewStyle().Foreground(t.Secondary).Bold(true).MarginTop(1)

	var sb strings.Builder
	sb.WriteString(t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).
		Render("⌨️  Keyboard Shortcuts"))
	sb.WriteString("\n")

	sections := []struct {
		name string
		keys []struct{ key, desc string }
	}{
		{"Filters", []struct{ key, desc string }{
			{"/", "Search titles"},
			{"a", "Assignee picker"},
			{"l / L", "Label picker"},
			{"u", "Toggle unassigned-only"},
			{"x", "Toggle hide-closed"},
			{"r", "Reset all filters"},
		}},
		{"Views", []struct{ key, desc string }{
			{"b", "Toggle board view"},
			{"p", "Profile switcher"},
			{"n / e", "New / edit profile"},
			{"enter", "Issue details"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"E / P", "Export board SVG / PNG"},
			{"C", "Copy issue URL"},
			{"q", "Quit"},
		}},
	}
	for _, sec := range sections {
		sb.WriteString("\n")
		sb.WriteString(sectionStyle.Render(sec.name))
		sb.WriteString("\n")
		for _, s := range sec.keys {
			sb.WriteString(keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true).
		Render("Press any key to close"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 3).
		Render(sb.String())
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}
