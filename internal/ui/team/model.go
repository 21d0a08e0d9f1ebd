package team

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/theme"
)

// Model is the team directory for the active board.
type Model struct {
	store       *board.Store
	keys        *keys.KeyMap
	filter      board.MemberFilter
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a team view over s.
func New(s *board.Store, k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search members..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		store:       s,
		keys:        k,
		filter:      board.MemberFilter{Department: board.FilterAll, Role: board.FilterAll},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetStore switches to another board's members.
func (m *Model) SetStore(s *board.Store) {
	m.store = s
	m.filter.Department = board.FilterAll
	m.filter.Role = board.FilterAll
}

// Capturing reports whether the search box owns keyboard input.
func (m Model) Capturing() bool { return m.searchMode }

// Filter returns the active member filter.
func (m Model) Filter() board.MemberFilter { return m.filter }

// Update handles search input and department/role cycling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searchMode {
		switch keyMsg.String() {
		case "enter":
			m.searchMode = false
			m.searchInput.Blur()
			return m, nil
		case "esc":
			m.searchMode = false
			m.searchInput.Reset()
			m.searchInput.Blur()
			m.filter.Search = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(keyMsg)
		m.filter.Search = strings.TrimSpace(m.searchInput.Value())
		return m, cmd
	}

	members := m.store.Members()
	switch {
	case key.Matches(keyMsg, m.keys.Search):
		m.searchMode = true
		return m, m.searchInput.Focus()
	case keyMsg.String() == "d":
		m.filter.Department = cycle(m.filter.Department, board.Departments(members))
	case keyMsg.String() == "r":
		m.filter.Role = cycle(m.filter.Role, board.Roles(members))
	case key.Matches(keyMsg, m.keys.ClearFilters):
		m.filter = board.MemberFilter{Department: board.FilterAll, Role: board.FilterAll}
		m.searchInput.Reset()
	}
	return m, nil
}

// cycle steps through FilterAll followed by each option.
func cycle(cur string, options []string) string {
	if cur == board.FilterAll || cur == "" {
		if len(options) == 0 {
			return board.FilterAll
		}
		return options[0]
	}
	for i, o := range options {
		if o == cur && i+1 < len(options) {
			return options[i+1]
		}
	}
	return board.FilterAll
}

// View renders the member table.
func (m Model) View() string {
	stats := board.TeamStats(m.store.Members(), m.store.Tasks())
	shown := board.FilterMembers(stats, m.filter)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(
		fmt.Sprintf("Team · %s (%d of %d)", m.store.Name(), len(shown), len(stats))))
	b.WriteString("\n")
	if m.searchMode {
		b.WriteString(m.searchInput.View())
	} else {
		b.WriteString(theme.DimmedStyle.Render(fmt.Sprintf(
			"department: %s  role: %s  search: %q", m.filter.Department, m.filter.Role, m.filter.Search)))
	}
	b.WriteString("\n\n")

	if len(shown) == 0 {
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No members match."))
	}

	nameCol := lipgloss.NewStyle().Width(22)
	roleCol := lipgloss.NewStyle().Width(20).Foreground(theme.ColorGray)
	for _, ms := range shown {
		u := ms.User
		fmt.Fprintf(&b, "%s %s%s%s %s\n",
			theme.AvatarStyle(u).Render(u.Initials()),
			nameCol.Render(u.Name),
			roleCol.Render(u.Role),
			roleCol.Render(u.Department),
			theme.DimmedStyle.Render(fmt.Sprintf("%d assigned · %d in progress · %d done",
				ms.Assigned, ms.InProgress, ms.Completed)),
		)
	}

	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render("/ search | d department | r role | c clear"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 4
}
