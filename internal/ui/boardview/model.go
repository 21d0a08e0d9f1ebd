package boardview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
	"github.com/nhle/workboard/internal/ui"
)

// NewTaskMsg asks the parent to open the task form for a new task.
type NewTaskMsg struct {
	Status model.Status
}

// EditTaskMsg asks the parent to open the task form for an existing task.
type EditTaskMsg struct {
	Task model.Task
}

// ShowTaskMsg asks the parent to open the detail view for a task.
type ShowTaskMsg struct {
	Task model.Task
}

// TaskMutatedMsg reports the outcome of a store mutation.
type TaskMutatedMsg struct {
	Action string
	TaskID string
	Err    error
}

type mode int

const (
	modeBoard mode = iota
	modeSearch
	modeConfirmDelete
)

// cardHeight is the number of lines a rendered card occupies.
const cardHeight = 3

// Model is the kanban board view.
type Model struct {
	store       *board.Store
	keys        *keys.KeyMap
	filter      board.Filter
	mode        mode
	col         int
	row         int
	searchInput textinput.Model
	confirmForm *huh.Form
	confirm     *bool
	deleteID    string
	statusMsg   string
	now         func() time.Time
	width       int
	height      int
}

// New creates a board view over s.
func New(s *board.Store, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		store:       s,
		keys:        k,
		filter:      board.DefaultFilter(),
		searchInput: si,
		confirm:     new(bool),
		now:         time.Now,
		width:       width,
		height:      height,
	}
}

// SetStore points the view at a different board and resets the cursor.
// Filters are kept except for an assignee who is not on the new board.
func (m *Model) SetStore(s *board.Store) {
	m.store = s
	m.col, m.row = 0, 0
	m.mode = modeBoard
	if id := m.filter.AssigneeID; id != board.FilterAll && id != "" {
		if _, ok := s.Member(id); !ok {
			m.filter.AssigneeID = board.FilterAll
		}
	}
}

// Store returns the board the view is showing.
func (m Model) Store() *board.Store { return m.store }

// Filter returns the active filter.
func (m Model) Filter() board.Filter { return m.filter }

// SetFilter replaces the active filter.
func (m *Model) SetFilter(f board.Filter) {
	m.filter = f
	m.clampCursor()
}

// ClearFilters resets search, priority and assignee filters.
func (m *Model) ClearFilters() {
	m.filter = board.DefaultFilter()
	m.searchInput.Reset()
	m.clampCursor()
}

// Capturing reports whether the view is consuming raw key input, so that
// global shortcuts must not fire.
func (m Model) Capturing() bool {
	return m.mode != modeBoard
}

// Selected returns the task under the cursor.
func (m Model) Selected() (model.Task, bool) {
	cols := m.columns()
	if m.col >= len(cols) || m.row >= len(cols[m.col].Tasks) {
		return model.Task{}, false
	}
	return cols[m.col].Tasks[m.row], true
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TaskMutatedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			m.statusMsg = msg.Action
		}
		if msg.TaskID != "" {
			m.focusTask(msg.TaskID)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.handleSearchKeys(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}
	return m, nil
}

// handleSearchKeys filters live as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBoard
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.mode = modeBoard
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.filter.Search = ""
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter.Search = strings.TrimSpace(m.searchInput.Value())
	m.clampCursor()
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	statuses := model.Statuses()

	switch {
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveSelected(-1)

	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveSelected(1)

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.reorderSelected(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.reorderSelected(1)

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.col < len(statuses)-1 {
			m.col++
			m.clampCursor()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.New):
		status := statuses[m.col]
		return m, func() tea.Msg { return NewTaskMsg{Status: status} }

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{Task: t} }

	case key.Matches(msg, m.keys.Details):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ShowTaskMsg{Task: t} }

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.confirmDelete(t)
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.filter.Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterPriority):
		m.filter.Priority = nextPriority(m.filter.Priority)
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.FilterAssignee):
		m.filter.AssigneeID = nextAssignee(m.filter.AssigneeID, m.store.Members())
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		m.ClearFilters()
		m.statusMsg = "Filters cleared"
		return m, nil
	}
	return m, nil
}

// nextPriority cycles all → low → medium → high → critical → all.
func nextPriority(cur string) string {
	ps := model.Priorities()
	if cur == board.FilterAll || cur == "" {
		return string(ps[0])
	}
	for i, p := range ps {
		if string(p) == cur && i+1 < len(ps) {
			return string(ps[i+1])
		}
	}
	return board.FilterAll
}

// nextAssignee cycles all → each member → unassigned → all.
func nextAssignee(cur string, members []model.User) string {
	switch cur {
	case board.FilterAll:
		if len(members) > 0 {
			return members[0].ID
		}
		return ""
	case "":
		return board.FilterAll
	}
	for i, u := range members {
		if u.ID == cur && i+1 < len(members) {
			return members[i+1].ID
		}
	}
	return ""
}

// moveSelected moves the selected card to the neighbouring column.
func (m *Model) moveSelected(delta int) tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return nil
	}
	statuses := model.Statuses()
	target := m.col + delta
	if target < 0 || target >= len(statuses) {
		return nil
	}
	status := statuses[target]
	s := m.store
	return func() tea.Msg {
		err := s.MoveTask(t.ID, status)
		return TaskMutatedMsg{Action: "Moved to " + status.Title(), TaskID: t.ID, Err: err}
	}
}

// reorderSelected shifts the selected card within its status bucket. The
// bucket is the unfiltered one, so hidden cards count as positions and
// the status message says when one was passed.
func (m *Model) reorderSelected(delta int) tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return nil
	}
	visible := make(map[string]bool)
	for _, v := range m.columns()[m.col].Tasks {
		visible[v.ID] = true
	}
	s := m.store
	return func() tea.Msg {
		passed, err := s.ShiftTask(t.ID, delta)
		if err != nil || len(passed) == 0 {
			return TaskMutatedMsg{TaskID: t.ID, Err: err}
		}
		return TaskMutatedMsg{Action: reorderAction(passed, visible), TaskID: t.ID}
	}
}

// reorderAction describes a shift, noting cards the filter hides.
func reorderAction(passed []string, visible map[string]bool) string {
	hidden := 0
	for _, id := range passed {
		if !visible[id] {
			hidden++
		}
	}
	switch {
	case hidden == 0:
		return "Reordered"
	case hidden == 1:
		return "Reordered past 1 hidden card"
	default:
		return fmt.Sprintf("Reordered past %d hidden cards", hidden)
	}
}

// ConfirmDelete focuses the task with the given ID and asks for
// confirmation before deleting it. It returns nil for an unknown ID.
func (m *Model) ConfirmDelete(id string) tea.Cmd {
	t, ok := m.store.GetTask(id)
	if !ok {
		return nil
	}
	m.focusTask(id)
	return m.confirmDelete(t)
}

func (m *Model) confirmDelete(t model.Task) tea.Cmd {
	m.deleteID = t.ID
	*m.confirm = false
	m.confirmForm = m.buildConfirmForm(t)
	m.mode = modeConfirmDelete
	return m.confirmForm.Init()
}

func (m Model) buildConfirmForm(t model.Task) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete task %q?", t.Title)).
				Description("This cannot be undone.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(min(m.width-4, 60))
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeBoard
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.mode = modeBoard
		if !*m.confirm {
			return m, nil
		}
		id, s := m.deleteID, m.store
		return m, func() tea.Msg {
			err := s.DeleteTask(id)
			return TaskMutatedMsg{Action: "Task deleted", Err: err}
		}
	case huh.StateAborted:
		m.mode = modeBoard
		return m, nil
	}
	return m, cmd
}

func (m Model) columns() []model.Column {
	if m.store == nil {
		return board.ProjectColumns(nil)
	}
	return m.store.Columns(m.filter)
}

// focusTask moves the cursor onto the card with the given ID, if visible.
func (m *Model) focusTask(id string) {
	for c, col := range m.columns() {
		for r, t := range col.Tasks {
			if t.ID == id {
				m.col, m.row = c, r
				return
			}
		}
	}
}

func (m *Model) clampCursor() {
	cols := m.columns()
	if m.col >= len(cols) {
		m.col = len(cols) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	n := len(cols[m.col].Tasks)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// FilterSummary describes the active filters for the header.
func (m Model) FilterSummary() string {
	if !m.filter.Active() {
		return ""
	}
	var parts []string
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.filter.Search))
	}
	if p := m.filter.Priority; p != board.FilterAll && p != "" {
		parts = append(parts, "priority:"+p)
	}
	switch id := m.filter.AssigneeID; id {
	case board.FilterAll:
	case "":
		parts = append(parts, "assignee:unassigned")
	default:
		name := id
		if u, ok := m.store.Member(id); ok {
			name = u.Name
		}
		parts = append(parts, "assignee:"+name)
	}
	return strings.Join(parts, " ")
}

// View renders the board.
func (m Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	cols := m.columns()
	colWidth := ui.ColumnWidth(m.width, len(cols))
	visible := max((m.height-6)/cardHeight, 1)
	today := m.now()

	rendered := make([]string, len(cols))
	for i, col := range cols {
		rendered[i] = m.renderColumn(col, i == m.col, colWidth, visible, today)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	var top string
	switch {
	case m.mode == modeSearch:
		top = lipgloss.NewStyle().Foreground(theme.ColorWhite).Padding(0, 1).Render(m.searchInput.View())
	case m.statusMsg != "":
		top = lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Padding(0, 1).Render(m.statusMsg)
	}
	if top == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, body)
}

func (m Model) renderColumn(col model.Column, focused bool, width, visible int, today time.Time) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(col.Color)).
		Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))

	lines := []string{header, ""}
	if len(col.Tasks) == 0 {
		lines = append(lines, theme.DimmedStyle.Italic(true).Render("No tasks"))
	}

	start := 0
	if focused && m.row >= visible {
		start = m.row - visible + 1
	}
	end := min(start+visible, len(col.Tasks))
	for r := start; r < end; r++ {
		lines = append(lines, renderCard(col.Tasks[r], focused && r == m.row, width, today))
	}
	if end < len(col.Tasks) {
		lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("… %d more", len(col.Tasks)-end)))
	}

	return theme.ColumnStyle(col.ID, focused).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func renderCard(t model.Task, selected bool, width int, today time.Time) string {
	title := t.Title
	if lipgloss.Width(title) > width-2 {
		title = string([]rune(title)[:max(width-3, 1)]) + "…"
	}

	meta := []string{theme.PriorityStyle(t.Priority).Render(t.Priority.Label())}
	if t.Assignee != nil {
		meta = append(meta, theme.AvatarStyle(*t.Assignee).Render(t.Assignee.Initials()))
	}
	if due, ok := t.Due(); ok {
		label := due.Format("Jan 02")
		if t.IsOverdue(today) {
			meta = append(meta, theme.OverdueStyle.Render(label))
		} else {
			meta = append(meta, theme.DimmedStyle.Render(label))
		}
	}

	card := title + "\n" + strings.Join(meta, " ")
	if selected {
		return theme.SelectedCardStyle.Render(card)
	}
	return theme.CardStyle.Render(card)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}
