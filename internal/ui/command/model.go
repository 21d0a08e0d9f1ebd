package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Name returns the first word of the command.
func (c CommandMsg) Name() string {
	name, _, _ := strings.Cut(string(c), " ")
	return name
}

// Arg returns everything after the first word, trimmed.
func (c CommandMsg) Arg() string {
	_, arg, _ := strings.Cut(string(c), " ")
	return strings.TrimSpace(arg)
}

// Entry describes one palette command.
type Entry struct {
	Name        string
	Args        string
	Description string
}

// Usage renders the command with its argument placeholder.
func (e Entry) Usage() string {
	if e.Args == "" {
		return e.Name
	}
	return e.Name + " " + e.Args
}

// Match returns the entries whose name starts with the first word of
// input. Empty input matches everything.
func Match(entries []Entry, input string) []Entry {
	word, _, _ := strings.Cut(strings.TrimSpace(input), " ")
	word = strings.ToLower(word)
	var out []Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Name, word) {
			out = append(out, e)
		}
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input   textinput.Model
	entries []Entry
	width   int
	height  int
}

// New creates a new command palette model. Entry names are offered as
// tab completions.
func New(entries []Entry, width, height int) Model {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(names)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:   ti,
		entries: entries,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		cmd := strings.Join(strings.Fields(m.input.Value()), " ")
		m.input.Reset()
		if cmd == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return CommandMsg(cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input and the commands matching what has been typed.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	rows := []string{titleStyle.Render("Command Palette"), m.input.View(), ""}

	matches := Match(m.entries, m.input.Value())
	if len(matches) == 0 {
		rows = append(rows, theme.DimmedStyle.Italic(true).Render("No matching command"))
	}
	usageWidth := 0
	for _, e := range matches {
		usageWidth = max(usageWidth, lipgloss.Width(e.Usage()))
	}
	usageStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite).Width(usageWidth + 2)
	for _, e := range matches {
		rows = append(rows, usageStyle.Render(e.Usage())+theme.HelpStyle.Render(e.Description))
	}

	return theme.PanelStyle.
		Padding(1, 2).
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
