package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#579BFC", Light: "#0073EA"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#00C875", Light: "#037F4C"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFCB00", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#E2445C", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FDAB3D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#A25DDC", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps boxed content such as dashboard cards.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// CardStyle is the base style for a task card inside a column.
var CardStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedCardStyle highlights the focused card.
var SelectedCardStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OverdueStyle flags tasks past their due date.
var OverdueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ErrorStyle renders error messages in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ColumnStyle returns the frame for a board column, accented with the
// status color. Focused columns get a thick border.
func ColumnStyle(status model.Status, focused bool) lipgloss.Style {
	border := lipgloss.RoundedBorder()
	if focused {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(status.Color())).
		Padding(0, 1)
}

// StatusStyle returns a color-coded badge style for the given task status.
func StatusStyle(status model.Status) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(status.Color()))
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityCritical:
		return base.Foreground(ColorRed)
	case model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// AvatarStyle renders a member's initials on their profile color.
func AvatarStyle(u model.User) lipgloss.Style {
	color := u.Color
	if color == "" {
		color = "#868E96"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(color))
}

// Apply switches adaptive colors to the given theme. Auto leaves the
// terminal's detected background in place.
func Apply(t model.Theme) {
	switch t {
	case model.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case model.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}
