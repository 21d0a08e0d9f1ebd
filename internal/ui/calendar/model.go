package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
)

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Model is the month calendar of task due dates.
type Model struct {
	store    *board.Store
	keys     *keys.KeyMap
	selected time.Time
	width    int
	height   int
}

// New creates a calendar positioned on today.
func New(s *board.Store, k *keys.KeyMap, today time.Time, width, height int) Model {
	y, mo, d := today.Date()
	return Model{
		store:    s,
		keys:     k,
		selected: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		width:    width,
		height:   height,
	}
}

// SetStore switches to another board.
func (m *Model) SetStore(s *board.Store) { m.store = s }

// Selected returns the highlighted day.
func (m Model) Selected() time.Time { return m.selected }

// Update moves the day cursor and pages months.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.selected = addMonths(m.selected, -1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.selected = addMonths(m.selected, 1)
	case key.Matches(keyMsg, m.keys.Left):
		m.selected = m.selected.AddDate(0, 0, -1)
	case key.Matches(keyMsg, m.keys.Right):
		m.selected = m.selected.AddDate(0, 0, 1)
	case key.Matches(keyMsg, m.keys.Up):
		m.selected = m.selected.AddDate(0, 0, -7)
	case key.Matches(keyMsg, m.keys.Down):
		m.selected = m.selected.AddDate(0, 0, 7)
	}
	return m, nil
}

// addMonths moves by whole months, clamping the day to the target month's
// length instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := min(t.Day(), board.DaysInMonth(first.Year(), first.Month()))
	return first.AddDate(0, 0, day-1)
}

// View renders the month grid and the selected day's agenda.
func (m Model) View() string {
	tasks := m.store.Tasks()
	cm := board.Calendar(tasks, m.selected.Year(), m.selected.Month())
	cellWidth := max((m.width-4)/7-1, 10)

	var rows []string
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("%s %d", cm.Month, cm.Year))
	rows = append(rows, title, "")

	header := make([]string, 7)
	for i, d := range weekdays {
		header[i] = lipgloss.NewStyle().Width(cellWidth).Bold(true).Foreground(theme.ColorGray).Render(d)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, week := range cm.Weeks {
		cells := make([]string, 7)
		for i, day := range week {
			cells[i] = m.renderDay(day, cellWidth)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "", m.renderAgenda(board.TasksDueOn(tasks, m.selected)))
	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderDay(day board.CalendarDay, width int) string {
	num := fmt.Sprintf("%2d", day.Date.Day())
	style := lipgloss.NewStyle().Width(width).Height(3)
	if !day.InMonth {
		style = style.Foreground(theme.ColorSubtle)
	}
	if day.Date.Equal(m.selected) {
		num = theme.SelectedCardStyle.PaddingLeft(0).Render(num)
	}

	lines := []string{num}
	for i, t := range day.Tasks {
		if i == 2 {
			lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("+%d", len(day.Tasks)-2)))
			break
		}
		title := t.Title
		if lipgloss.Width(title) > width-2 {
			title = string([]rune(title)[:max(width-3, 1)]) + "…"
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color(board.PriorityColor(t.Priority))).
			Render("● "+title))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAgenda(due []model.Task) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.selected.Format("Monday, January 2")))
	b.WriteString("\n")
	if len(due) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("Nothing due."))
		return b.String()
	}
	for _, t := range due {
		fmt.Fprintf(&b, "  %s %s %s\n",
			theme.StatusStyle(t.Status).Render(t.Status.Title()),
			theme.PriorityStyle(t.Priority).Render(t.Priority.Label()),
			t.Title)
	}
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
