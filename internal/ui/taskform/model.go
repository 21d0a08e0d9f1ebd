package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
)

// TaskCreatedMsg is dispatched when a new task is submitted via the form.
type TaskCreatedMsg struct {
	Task model.NewTask
}

// TaskUpdatedMsg is dispatched when an existing task is edited via the form.
type TaskUpdatedMsg struct {
	ID     string
	Update model.TaskUpdate
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      model.Status
	priority    model.Priority
	assigneeID  string
	dueDate     string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	orig     formBindings
	members  []model.User
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{status: model.StatusTodo, priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// SetMembers sets the users offered in the assignee selector.
func (m *Model) SetMembers(members []model.User) {
	m.members = members
}

// StartCreate initializes the form for a new task in the given column.
func (m *Model) StartCreate(status model.Status) tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{status: status, priority: model.PriorityMedium}
	if !status.Valid() {
		m.fb.status = model.StatusTodo
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing task's values.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editMode = true
	m.editID = t.ID
	*m.fb = formBindings{
		title:       t.Title,
		description: t.Description,
		status:      t.Status,
		priority:    t.Priority,
		assigneeID:  t.AssigneeID(),
		dueDate:     t.DueDate,
	}
	m.orig = *m.fb
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form is editing an existing task.
func (m Model) Editing() bool { return m.editMode }

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	statusOpts := make([]huh.Option[model.Status], 0, 4)
	for _, s := range model.Statuses() {
		statusOpts = append(statusOpts, huh.NewOption(s.Title(), s))
	}

	priorityOpts := make([]huh.Option[model.Priority], 0, 4)
	for _, p := range model.Priorities() {
		priorityOpts = append(priorityOpts, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Status]().
				Title("Status").
				Options(statusOpts...).
				Value(&m.fb.status),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&m.fb.priority),
			m.assigneeField(),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
	}
	for _, u := range m.members {
		opts = append(opts, huh.NewOption(u.Name, u.ID))
	}
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(opts...).
		Value(&m.fb.assigneeID)
}

func (m Model) handleSubmit() tea.Cmd {
	title := strings.TrimSpace(m.fb.title)
	description := m.fb.description
	status := m.fb.status
	priority := m.fb.priority
	assignee := m.fb.assigneeID
	due := strings.TrimSpace(m.fb.dueDate)

	if m.editMode {
		id := m.editID
		u := m.changes(title, description, status, priority, assignee, due)
		if u.IsZero() {
			return func() tea.Msg { return CancelMsg{} }
		}
		return func() tea.Msg {
			return TaskUpdatedMsg{ID: id, Update: u}
		}
	}
	return func() tea.Msg {
		return TaskCreatedMsg{Task: model.NewTask{
			Title:       title,
			Description: description,
			Status:      status,
			Priority:    priority,
			AssigneeID:  assignee,
			DueDate:     due,
		}}
	}
}

// changes returns an update holding only the fields that differ from the
// task the form was opened with.
func (m Model) changes(title, description string, status model.Status, priority model.Priority, assignee, due string) model.TaskUpdate {
	var u model.TaskUpdate
	if title != m.orig.title {
		u.Title = &title
	}
	if description != m.orig.description {
		u.Description = &description
	}
	if status != m.orig.status {
		u.Status = &status
	}
	if priority != m.orig.priority {
		u.Priority = &priority
	}
	if assignee != m.orig.assigneeID {
		u.AssigneeID = &assignee
	}
	if due != m.orig.dueDate {
		u.DueDate = &due
	}
	return u
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
