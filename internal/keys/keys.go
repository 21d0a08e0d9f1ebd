package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Card navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Card actions
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	New       key.Binding
	Edit      key.Binding
	Details   key.Binding
	Delete    key.Binding

	// Filters
	Search         key.Binding
	FilterPriority key.Binding
	FilterAssignee key.Binding
	ClearFilters   key.Binding

	// Views
	Home      key.Binding
	Board     key.Binding
	Team      key.Binding
	Calendar  key.Binding
	Settings  key.Binding
	NextBoard key.Binding

	// Calendar
	PrevMonth key.Binding
	NextMonth key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev column"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next column"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move card left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move card right"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move card up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move card down"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit task"),
		),
		Details: key.NewBinding(
			key.WithKeys("v", " "),
			key.WithHelp("v", "task details"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete task"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterPriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority filter"),
		),
		FilterAssignee: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "cycle assignee filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		Board: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "board"),
		),
		Team: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "team"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "calendar"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "next board"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Left, k.Right, k.New, k.Edit,
		k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Back, k.Quit},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown, k.New, k.Edit, k.Details, k.Delete},
		{k.Search, k.FilterPriority, k.FilterAssignee, k.ClearFilters},
		{k.Home, k.Board, k.Team, k.Calendar, k.Settings, k.NextBoard},
		{k.PrevMonth, k.NextMonth, k.Command, k.Help},
	}
}
