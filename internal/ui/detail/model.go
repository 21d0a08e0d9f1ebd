package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action string
	TaskID string
}

// Actions carried by ActionMsg.
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Model is the read-only task detail view.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Task returns the task on display.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			return m, m.action(ActionEdit)

		case key.Matches(msg, m.keys.Delete):
			return m, m.action(ActionDelete)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	if m.task == nil {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg {
		return ActionMsg{Action: name, TaskID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(m.viewport.View())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	statusBadge := theme.StatusStyle(task.Status).Render(task.Status.Title())
	priBadge := theme.PriorityStyle(task.Priority).Render(task.Priority.Label())
	badges := []string{statusBadge, "  ", priBadge}
	if task.IsOverdue(m.now()) {
		badges = append(badges, "  ", theme.OverdueStyle.Render("OVERDUE"))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badges...), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return metaStyle.Render(label) + valStyle.Render(value)
	}

	if task.Assignee != nil {
		a := task.Assignee
		who := theme.AvatarStyle(*a).Render(a.Initials()) + " " + valStyle.Render(a.Name)
		if a.Email != "" {
			who += lipgloss.NewStyle().Foreground(theme.ColorGray).Render(" <" + a.Email + ">")
		}
		sections = append(sections, metaStyle.Render("Assignee:")+who)
	} else {
		sections = append(sections, row("Assignee:", "Unassigned"))
	}
	if due, ok := task.Due(); ok {
		sections = append(sections, row("Due:", due.Format("Mon, Jan 2 2006")))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, row("Created:", task.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, row("Updated:", task.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	} else {
		body = lipgloss.NewStyle().Width(max(min(m.width-4, 80), 10)).Render(body)
	}
	sections = append(sections, body, "")

	sections = append(sections, lipgloss.NewStyle().Foreground(theme.ColorGray).
		Render(fmt.Sprintf("id %s", task.ID)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(t model.Task) {
	t = t.Clone()
	m.task = &t
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Clear drops the task on display.
func (m *Model) Clear() {
	m.task = nil
	m.viewport.SetContent("")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 4
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
