package team

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/keys"
	"github.com/nhle/workboard/internal/seed"
)

func TestCycle(t *testing.T) {
	opts := []string{"Design", "Engineering"}
	assert.Equal(t, "Design", cycle(board.FilterAll, opts))
	assert.Equal(t, "Engineering", cycle("Design", opts))
	assert.Equal(t, board.FilterAll, cycle("Engineering", opts))
	assert.Equal(t, board.FilterAll, cycle(board.FilterAll, nil))
}

func TestDepartmentFilterNarrowsView(t *testing.T) {
	m := New(board.New(seed.Demo()), keys.DefaultKeyMap(), 140, 40)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Equal(t, "Design", m.Filter().Department)

	out := m.View()
	assert.Contains(t, out, "Sarah Wilson")
	assert.NotContains(t, out, "John Doe")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Equal(t, board.FilterAll, m.Filter().Department)
	assert.Contains(t, m.View(), "John Doe")
}

func TestSearchMode(t *testing.T) {
	m := New(board.New(seed.Demo()), keys.DefaultKeyMap(), 140, 40)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	assert.True(t, m.Capturing())
	for _, r := range "emily" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Capturing())
	assert.Equal(t, "emily", m.Filter().Search)
	assert.Contains(t, m.View(), "Emily Davis")
	assert.NotContains(t, m.View(), "Mike Johnson")
}
