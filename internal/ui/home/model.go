package home

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
)

// recentCount is how many tasks the activity feed shows.
const recentCount = 5

// Model is the dashboard shown on startup.
type Model struct {
	workspace *board.Workspace
	active    string
	now       func() time.Time
	width     int
	height    int
}

// New creates a dashboard over every board in ws.
func New(ws *board.Workspace, width, height int) Model {
	return Model{workspace: ws, now: time.Now, width: width, height: height}
}

// SetActive marks which board is currently open.
func (m *Model) SetActive(boardID string) {
	m.active = boardID
}

// Update is a no-op; the dashboard reads straight from the workspace.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders stats cards, the board list, and recent activity.
func (m Model) View() string {
	var all []model.Task
	for _, s := range m.workspace.Stores() {
		all = append(all, s.Tasks()...)
	}
	sum := board.Summarize(all, m.now())

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Tasks", fmt.Sprint(sum.Total), theme.ColorBlue),
		statCard("Completed", fmt.Sprint(sum.Completed), theme.ColorGreen),
		statCard("In Progress", fmt.Sprint(sum.InProgress), theme.ColorOrange),
		statCard("Stuck", fmt.Sprint(sum.Stuck), theme.ColorRed),
		statCard("Overdue", fmt.Sprint(sum.Overdue), theme.ColorMagenta),
		statCard("Done", fmt.Sprintf("%d%%", sum.CompletionRate()), theme.ColorGreen),
	)

	sections := []string{cards, m.renderBoards(), m.renderRecent(all)}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func statCard(label, value string, color lipgloss.AdaptiveColor) string {
	v := lipgloss.NewStyle().Bold(true).Foreground(color).Render(value)
	l := theme.DimmedStyle.Render(label)
	return theme.PanelStyle.Width(14).MarginRight(1).Render(v + "\n" + l)
}

func (m Model) renderBoards() string {
	var b strings.Builder
	b.WriteString(sectionTitle("Boards"))
	for _, s := range m.workspace.Stores() {
		sum := board.Summarize(s.Tasks(), m.now())
		marker := "  "
		if s.ID() == m.active {
			marker = "▸ "
		}
		bd := s.Board()
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(orDefault(bd.Color, "#0073ea"))).Render("■")
		fmt.Fprintf(&b, "%s%s %s  %s\n", marker, swatch, bd.Name,
			theme.DimmedStyle.Render(fmt.Sprintf("%d tasks, %d%% done, %d members",
				sum.Total, sum.CompletionRate(), len(bd.Members))))
	}
	return b.String()
}

func (m Model) renderRecent(all []model.Task) string {
	var b strings.Builder
	b.WriteString(sectionTitle("Recent Activity"))
	recent := board.RecentActivity(all, recentCount)
	if len(recent) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No activity yet."))
		return b.String()
	}
	for _, t := range recent {
		who := "Unassigned"
		if t.Assignee != nil {
			who = t.Assignee.Name
		}
		fmt.Fprintf(&b, "  %s %s  %s\n",
			theme.StatusStyle(t.Status).Render(t.Status.Title()),
			t.Title,
			theme.DimmedStyle.Render(fmt.Sprintf("%s · %s", who, t.UpdatedAt.Format("Jan 02 15:04"))),
		)
	}
	return b.String()
}

func sectionTitle(s string) string {
	return "\n" + lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(s) + "\n"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
