package boards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/theme"
)

// CloseMsg signals the parent to close the board list.
type CloseMsg struct{}

// SelectedMsg asks the parent to open a board.
type SelectedMsg struct {
	BoardID string
}

type boardsMode int

const (
	modeList boardsMode = iota
	modeForm
)

type formBindings struct {
	name        string
	description string
	color       string
}

type boardCreatedMsg struct {
	id  string
	err error
}

// Model lists the workspace's boards and creates new ones.
type Model struct {
	mode        boardsMode
	workspace   *board.Workspace
	keys        *keys.KeyMap
	selectedIdx int
	members     []model.User
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a board list over ws.
func New(ws *board.Workspace, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:      modeList,
		workspace: ws,
		keys:      k,
		fb:        &formBindings{},
		width:     width, height: height,
	}
}

// SetMembers sets the team copied onto newly created boards.
func (m *Model) SetMembers(members []model.User) {
	m.members = members
}

// Focus moves the selection onto the given board.
func (m *Model) Focus(boardID string) {
	for i, s := range m.workspace.Stores() {
		if s.ID() == boardID {
			m.selectedIdx = i
			return
		}
	}
}

// Capturing reports whether the create form owns keyboard input.
func (m Model) Capturing() bool { return m.mode == modeForm }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardCreatedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Board created"
		m.Focus(msg.id)
		id := msg.id
		return m, func() tea.Msg { return SelectedMsg{BoardID: id} }

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	stores := m.workspace.Stores()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(stores) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(stores)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(stores) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(stores) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if m.selectedIdx >= len(stores) {
			return m, nil
		}
		id := stores[m.selectedIdx].ID()
		return m, func() tea.Msg { return SelectedMsg{BoardID: id} }

	case key.Matches(msg, m.keys.New):
		*m.fb = formBindings{color: "#0073ea"}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Board name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Color").
				Placeholder("#0073ea").
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.createBoard()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the board list.
func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Boards"))
	b.WriteString("\n\n")

	stores := m.workspace.Stores()
	if len(stores) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No boards yet. Press 'n' to create one."))
	}
	for i, s := range stores {
		bd := s.Board()
		color := bd.Color
		if color == "" {
			color = "#0073ea"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
		label := fmt.Sprintf("%s  %s (%d tasks)", swatch, bd.Name, len(bd.Tasks))

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedCardStyle.Render(label))
		} else {
			b.WriteString(theme.CardStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter open | n new | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

func (m Model) createBoard() tea.Cmd {
	ws := m.workspace
	fb := *m.fb
	members := m.members
	return func() tea.Msg {
		s, err := ws.Create(fb.name, fb.description, fb.color, members)
		if err != nil {
			return boardCreatedMsg{err: err}
		}
		return boardCreatedMsg{id: s.ID()}
	}
}
