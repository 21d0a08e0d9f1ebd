package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandMsgParts(t *testing.T) {
	c := CommandMsg("export /tmp/boards.yaml")
	assert.Equal(t, "export", c.Name())
	assert.Equal(t, "/tmp/boards.yaml", c.Arg())

	assert.Equal(t, "quit", CommandMsg("quit").Name())
	assert.Equal(t, "", CommandMsg("quit").Arg())
}

func TestEnterEmitsNormalizedCommand(t *testing.T) {
	m := New(testEntries, 80, 20)
	for _, r := range "  export   out.yaml " {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("export out.yaml"), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "empty input emits nothing")
}

var testEntries = []Entry{
	{Name: "board", Args: "[name]", Description: "open a board"},
	{Name: "boards", Description: "list boards"},
	{Name: "export", Args: "[path]", Description: "write boards to YAML"},
}

func TestMatch(t *testing.T) {
	assert.Len(t, Match(testEntries, ""), 3)
	assert.Len(t, Match(testEntries, "bo"), 2)
	assert.Len(t, Match(testEntries, "board Marketing"), 2)
	assert.Len(t, Match(testEntries, "EXP"), 1)
	assert.Empty(t, Match(testEntries, "zzz"))
}

func TestViewListsUsage(t *testing.T) {
	m := New(testEntries, 80, 20)
	out := m.View()
	assert.Contains(t, out, "export [path]")
	assert.Contains(t, out, "write boards to YAML")
}
