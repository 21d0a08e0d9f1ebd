package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workboard/internal/theme"
)

// minColumnWidth keeps board columns readable on narrow terminals.
const minColumnWidth = 12

// Layout splits the terminal into a header, a tab row, the active view and
// a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions. The
// header, tab row and status bar are one line each.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.TabsHeight-l.StatusBarHeight, 0)
}

// ColumnWidth splits total evenly across n side-by-side columns, leaving
// room for each column's border and padding.
func ColumnWidth(total, n int) int {
	if n <= 0 {
		return total
	}
	return max(total/n-4, minColumnWidth)
}

// RenderTabs renders the view switcher, highlighting the active tab. An
// active index outside the tabs highlights nothing.
func (l Layout) RenderTabs(tabs []string, active int) string {
	parts := make([]string, 0, len(tabs)*2)
	for i, tab := range tabs {
		if i > 0 {
			parts = append(parts, theme.DimmedStyle.Render(" │ "))
		}
		if i == active {
			parts = append(parts, theme.SelectedCardStyle.Render(tab))
		} else {
			parts = append(parts, theme.CardStyle.Foreground(theme.ColorGray).Render(tab))
		}
	}
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

// RenderHeader renders the title bar: the title on the left and the info
// text (board count or active filters) on the right.
func (l Layout) RenderHeader(title string, info string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Align(lipgloss.Right).Render(info)
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, fill(theme.HeaderStyle, gap), right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or the
// latest status message.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)
	gap := l.Width - lipgloss.Width(rendered)
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, fill(theme.StatusBarStyle, gap))
}

// fill renders width blank cells in the background of style.
func fill(style lipgloss.Style, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(style.GetBackground()).
		Render("")
}

// RenderWithFrame stacks the header, tab row, view content and status bar.
func (l Layout) RenderWithFrame(header, tabs, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tabs,
		content,
		statusBar,
	)
}
