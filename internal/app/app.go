package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/settings"
	"github.com/nhle/workboard/internal/theme"
	"github.com/nhle/workboard/internal/ui"
	"github.com/nhle/workboard/internal/ui/boards"
	"github.com/nhle/workboard/internal/ui/boardview"
	"github.com/nhle/workboard/internal/ui/calendar"
	"github.com/nhle/workboard/internal/ui/command"
	"github.com/nhle/workboard/internal/ui/detail"
	helpview "github.com/nhle/workboard/internal/ui/help"
	"github.com/nhle/workboard/internal/ui/home"
	"github.com/nhle/workboard/internal/ui/settingsview"
	"github.com/nhle/workboard/internal/ui/taskform"
	"github.com/nhle/workboard/internal/ui/team"
)

// DefaultExportPath is used by the export command when no path is given.
const DefaultExportPath = "workboard-export.yaml"

// Commands lists the command palette vocabulary.
var Commands = []command.Entry{
	{Name: "home", Description: "dashboard"},
	{Name: "board", Args: "[name]", Description: "show the board, optionally switching by name or id"},
	{Name: "boards", Description: "list and create boards"},
	{Name: "team", Description: "team directory"},
	{Name: "calendar", Description: "due dates by month"},
	{Name: "settings", Description: "edit preferences"},
	{Name: "help", Description: "keyboard shortcuts"},
	{Name: "new", Description: "new task in To Do"},
	{Name: "clear", Description: "clear board filters"},
	{Name: "export", Args: "[path]", Description: "write every board to YAML"},
	{Name: "theme", Args: "light|dark|auto", Description: "switch color theme"},
	{Name: "quit", Description: "exit"},
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewBoard
	ViewTeam
	ViewCalendar
	ViewBoards
	ViewSettings
	ViewHelp
	ViewCommand
	ViewTaskForm
	ViewDetail
)

// tabs are the views reachable with the number keys, in tab order.
var tabs = []struct {
	view  ViewState
	title string
}{
	{ViewHome, "Home"},
	{ViewBoard, "Board"},
	{ViewTeam, "Team"},
	{ViewCalendar, "Calendar"},
}

// Model is the root Bubble Tea model that manages view routing and
// layout over a workspace of boards.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	workspace    *board.Workspace
	active       *board.Store
	settings     *settings.Service
	log          log.FieldLogger
	keys         *keys.KeyMap
	homeView     home.Model
	boardView    boardview.Model
	detailView   detail.Model
	teamView     team.Model
	calendarView calendar.Model
	boardsView   boards.Model
	settingsView settingsview.Model
	helpView     helpview.Model
	commandView  command.Model
	taskForm     taskform.Model
	statusMsg    string
	ready        bool
}

// New creates the root model. ws must hold at least one board.
func New(ws *board.Workspace, svc *settings.Service, logger log.FieldLogger) (Model, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	stores := ws.Stores()
	if len(stores) == 0 {
		return Model{}, fmt.Errorf("%w: workspace has no boards", board.ErrValidation)
	}
	active := stores[0]
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:  ViewBoard,
		previousView: ViewHome,
		workspace:    ws,
		active:       active,
		settings:     svc,
		log:          logger,
		keys:         k,
		homeView:     home.New(ws, 80, 24),
		boardView:    boardview.New(active, k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		teamView:     team.New(active, k, 80, 24),
		calendarView: calendar.New(active, k, time.Now(), 80, 24),
		boardsView:   boards.New(ws, k, 80, 24),
		settingsView: settingsview.New(svc, k, 80, 24),
		helpView:     helpview.New(k, Commands, 80, 24),
		commandView:  command.New(Commands, 80, 24),
		taskForm:     taskform.New(80, 24),
	}
	m.homeView.SetActive(active.ID())
	m.boardsView.SetMembers(active.Members())
	return m, nil
}

// Init loads persisted settings.
func (m Model) Init() tea.Cmd {
	return m.settingsView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.homeView.SetSize(w, h)
		m.boardView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.teamView.SetSize(w, h)
		m.calendarView.SetSize(w, h)
		m.boardsView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case boardview.NewTaskMsg:
		m.taskForm.SetMembers(m.active.Members())
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		cmd := m.taskForm.StartCreate(msg.Status)
		return m, cmd

	case boardview.EditTaskMsg:
		m.taskForm.SetMembers(m.active.Members())
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		cmd := m.taskForm.StartEdit(msg.Task)
		return m, cmd

	case boardview.ShowTaskMsg:
		m.detailView.SetTask(msg.Task)
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.detailView.Clear()
		m.currentView = ViewBoard
		return m, nil

	case detail.ActionMsg:
		return m.handleDetailAction(msg)

	case taskform.TaskCreatedMsg:
		m.currentView = m.previousView
		return m, m.createTask(msg.Task)

	case taskform.TaskUpdatedMsg:
		m.currentView = m.previousView
		return m, m.updateTask(msg.ID, msg.Update)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case boardview.TaskMutatedMsg:
		// The board view tracks the cursor even while another view is shown.
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Update(msg)
		m.refreshDetail()
		return m, cmd

	case boards.SelectedMsg:
		m.switchBoard(msg.BoardID)
		m.currentView = ViewBoard
		return m, nil

	case boards.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case settingsview.SavedMsg:
		theme.Apply(msg.Settings.Theme)
		m.statusMsg = "Settings saved"
		return m, nil

	case settingsview.DoneMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.statusMsg = "Exported to " + msg.path
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		theme.Apply(msg.theme)
		m.statusMsg = "Theme set to " + string(msg.theme)
		return m, m.settingsView.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.statusMsg = ""
		if m.capturing() {
			break
		}
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

func (m Model) handleDetailAction(msg detail.ActionMsg) (Model, tea.Cmd) {
	t, ok := m.active.GetTask(msg.TaskID)
	if !ok {
		m.statusMsg = "Task no longer exists"
		m.currentView = ViewBoard
		return m, nil
	}
	switch msg.Action {
	case detail.ActionEdit:
		m.taskForm.SetMembers(m.active.Members())
		m.previousView = ViewDetail
		m.currentView = ViewTaskForm
		cmd := m.taskForm.StartEdit(t)
		return m, cmd
	case detail.ActionDelete:
		m.detailView.Clear()
		m.currentView = ViewBoard
		cmd := m.boardView.ConfirmDelete(t.ID)
		return m, cmd
	}
	return m, nil
}

// refreshDetail reloads the task on the detail view after a mutation.
func (m *Model) refreshDetail() {
	shown, ok := m.detailView.Task()
	if !ok {
		return
	}
	if t, ok := m.active.GetTask(shown.ID); ok {
		m.detailView.SetTask(t)
		return
	}
	m.detailView.Clear()
	if m.currentView == ViewDetail {
		m.currentView = ViewBoard
	}
}

// capturing reports whether the active view needs raw keys, such as a
// text input or a form.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewTaskForm:
		return true
	case ViewBoard:
		return m.boardView.Capturing()
	case ViewTeam:
		return m.teamView.Capturing()
	case ViewBoards:
		return m.boardsView.Capturing()
	case ViewSettings:
		return m.settingsView.Capturing()
	case ViewCommand:
		return true
	}
	return false
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return m, tea.Quit, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case "esc":
		switch m.currentView {
		case ViewHelp, ViewTeam, ViewCalendar:
			m.currentView = ViewBoard
			return m, nil, true
		}

	case "1", "2", "3", "4":
		m.currentView = tabs[int(msg.String()[0]-'1')].view
		return m, nil, true

	case ",":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m, m.settingsView.Init(), true

	case "b":
		if m.currentView == ViewBoard || m.currentView == ViewHome {
			m.cycleBoard()
			return m, nil, true
		}
	}
	return m, nil, false
}

// handleCommandEsc returns from the palette without running anything.
func (m Model) handleCommandEsc(msg tea.Msg) (Model, bool) {
	if k, ok := msg.(tea.KeyMsg); ok && m.currentView == ViewCommand && k.String() == "esc" {
		m.currentView = m.previousView
		return m, true
	}
	return m, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if next, ok := m.handleCommandEsc(msg); ok {
		return next, nil
	}

	var cmd tea.Cmd

	switch m.currentView {
	case ViewHome:
		m.homeView, cmd = m.homeView.Update(msg)
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTeam:
		m.teamView, cmd = m.teamView.Update(msg)
	case ViewCalendar:
		m.calendarView, cmd = m.calendarView.Update(msg)
	case ViewBoards:
		m.boardsView, cmd = m.boardsView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	}

	// Settings load results arrive asynchronously; keep the settings
	// view current even when it is not on screen.
	if m.currentView != ViewSettings && !isKey(msg) {
		var extra tea.Cmd
		m.settingsView, extra = m.settingsView.Update(msg)
		cmd = tea.Batch(cmd, extra)
	}

	return m, cmd
}

func isKey(msg tea.Msg) bool {
	_, ok := msg.(tea.KeyMsg)
	return ok
}

// switchBoard makes the board with the given ID active in every view.
func (m *Model) switchBoard(id string) {
	s, ok := m.workspace.Store(id)
	if !ok {
		m.statusMsg = fmt.Sprintf("Unknown board %s", id)
		return
	}
	m.active = s
	m.boardView.SetStore(s)
	m.detailView.Clear()
	m.teamView.SetStore(s)
	m.calendarView.SetStore(s)
	m.homeView.SetActive(s.ID())
	m.boardsView.Focus(s.ID())
	m.boardsView.SetMembers(s.Members())
	m.statusMsg = "Switched to " + s.Name()
	m.log.WithField("board", s.ID()).Debug("board switched")
}

// cycleBoard activates the next board in workspace order.
func (m *Model) cycleBoard() {
	stores := m.workspace.Stores()
	if len(stores) < 2 {
		return
	}
	for i, s := range stores {
		if s == m.active {
			m.switchBoard(stores[(i+1)%len(stores)].ID())
			return
		}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Workboard · "+m.active.Name(), m.headerInfo())
	tabRow := m.layout.RenderTabs(tabTitles(), m.activeTab())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabRow, m.renderContent(), statusBar)
}

func tabTitles() []string {
	out := make([]string, len(tabs))
	for i, t := range tabs {
		out[i] = fmt.Sprintf("%d %s", i+1, t.title)
	}
	return out
}

// activeTab returns the tab index of the current view, or -1.
func (m Model) activeTab() int {
	for i, t := range tabs {
		if t.view == m.currentView {
			return i
		}
	}
	return -1
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.homeView.View()
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTeam:
		return m.teamView.View()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewBoards:
		return m.boardsView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	default:
		return ""
	}
}

func (m Model) headerInfo() string {
	if f := m.boardView.FilterSummary(); f != "" {
		return f
	}
	return fmt.Sprintf("%d boards", m.workspace.Len())
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView != ViewTaskForm {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "enter edit | d delete | j/k scroll | esc back"
	case ViewCommand:
		return "tab complete | enter execute | esc back"
	case ViewTaskForm:
		return "enter next | esc cancel"
	case ViewBoards:
		return "enter open | n new | esc back"
	case ViewSettings:
		return "enter edit | r reset | esc back"
	case ViewTeam:
		return "/ search | d department | r role | c clear | esc back"
	case ViewCalendar:
		return "[ ] month | h/j/k/l day | esc back"
	case ViewHome:
		return "q quit | ? help | 2 board | b next board | : command"
	default:
		if m.boardView.Filter().Active() {
			return "p priority | u assignee | / search | c clear"
		}
		return "q quit | ? help | n new | H/L move | J/K reorder | / search | p/u filter"
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	m.statusMsg = ""
	switch cmd.Name() {
	case "quit", "q":
		return tea.Quit
	case "home":
		m.currentView = ViewHome
	case "board":
		if arg := cmd.Arg(); arg != "" {
			if !m.selectBoardByName(arg) {
				m.statusMsg = fmt.Sprintf("No board named %q", arg)
			}
		}
		m.currentView = ViewBoard
	case "boards":
		m.previousView = m.currentView
		m.currentView = ViewBoards
	case "team":
		m.currentView = ViewTeam
	case "calendar":
		m.currentView = ViewCalendar
	case "settings":
		m.previousView = m.currentView
		m.currentView = ViewSettings
		return m.settingsView.Init()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
	case "new":
		m.currentView = ViewBoard
		return func() tea.Msg { return boardview.NewTaskMsg{Status: model.StatusTodo} }
	case "clear":
		m.boardView.ClearFilters()
		m.statusMsg = "Filters cleared"
	case "export":
		path := cmd.Arg()
		if path == "" {
			path = DefaultExportPath
		}
		return exportBoards(m.workspace, path, m.log)
	case "theme":
		t := model.Theme(cmd.Arg())
		if !t.Valid() {
			m.statusMsg = "usage: theme light|dark|auto"
			return nil
		}
		return saveTheme(m.settings, t)
	default:
		m.statusMsg = fmt.Sprintf("Unknown command %q", string(cmd))
	}
	return nil
}

// selectBoardByName switches to the first board whose name matches,
// ignoring case.
func (m *Model) selectBoardByName(name string) bool {
	for _, s := range m.workspace.Stores() {
		if strings.EqualFold(s.Name(), name) || s.ID() == name {
			m.switchBoard(s.ID())
			return true
		}
	}
	return false
}
