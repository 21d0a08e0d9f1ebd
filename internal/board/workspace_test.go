package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

func TestWorkspace(t *testing.T) {
	w, err := NewWorkspace([]model.Board{
		{ID: "b1", Name: "Product"},
		{ID: "b2", Name: "Marketing"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, w.Len())

	s, ok := w.Store("b2")
	require.True(t, ok)
	assert.Equal(t, "Marketing", s.Name())

	_, err = s.AddTask(model.NewTask{Title: "Launch"})
	require.NoError(t, err)

	boards := w.Boards()
	require.Len(t, boards, 2)
	assert.Equal(t, "b1", boards[0].ID)
	assert.Empty(t, boards[0].Tasks)
	assert.Len(t, boards[1].Tasks, 1)

	_, ok = w.Store("missing")
	assert.False(t, ok)
}

func TestWorkspaceRejectsDuplicates(t *testing.T) {
	_, err := NewWorkspace([]model.Board{{ID: "b1"}, {ID: "b1"}})
	assert.ErrorIs(t, err, ErrDuplicateBoard)

	w, err := NewWorkspace(nil)
	require.NoError(t, err)
	_, err = w.Add(model.Board{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWorkspaceCreate(t *testing.T) {
	w, err := NewWorkspace(nil, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	s, err := w.Create("  Roadmap ", "Q3 planning", "#a25ddc", []model.User{alice})
	require.NoError(t, err)
	assert.Equal(t, "task-1", s.ID())
	assert.Equal(t, "Roadmap", s.Name())
	assert.Equal(t, []model.User{alice}, s.Members())
	assert.Empty(t, s.Tasks())

	_, err = w.Create(" ", "", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, w.Len())
}

func TestWorkspaceCreateSharesIDGenerator(t *testing.T) {
	w, err := NewWorkspace(nil, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	a, err := w.Create("A", "", "", nil)
	require.NoError(t, err)
	b, err := w.Create("B", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"task-1", "task-2"}, []string{a.ID(), b.ID()})
}

func TestWorkspaceCreateDefaultIDs(t *testing.T) {
	w, err := NewWorkspace(nil)
	require.NoError(t, err)

	s, err := w.Create("Roadmap", "", "", nil)
	require.NoError(t, err)
	id, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
