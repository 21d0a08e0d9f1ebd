package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 37, NewLayout(120, 40).ContentHeight())
	assert.Equal(t, 0, NewLayout(120, 2).ContentHeight())
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 26, ColumnWidth(120, 4))
	assert.Equal(t, minColumnWidth, ColumnWidth(40, 4))
	assert.Equal(t, 80, ColumnWidth(80, 0))
}

func TestRenderFrame(t *testing.T) {
	l := NewLayout(60, 10)
	header := l.RenderHeader("Workboard", "2 boards")
	assert.Equal(t, 60, lipgloss.Width(header))
	assert.Contains(t, header, "2 boards")

	tabs := l.RenderTabs([]string{"1 Home", "2 Board"}, 1)
	assert.Contains(t, tabs, "2 Board")

	frame := l.RenderWithFrame(header, tabs, "body", l.RenderStatusBar("q quit"))
	lines := strings.Split(frame, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[3], "q quit")
}
