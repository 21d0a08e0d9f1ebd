package taskform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

func editTask() model.Task {
	return model.Task{
		ID:          "1",
		Title:       "Design landing page",
		Description: "Hero and pricing",
		Status:      model.StatusProgress,
		Priority:    model.PriorityHigh,
		DueDate:     "2024-03-01",
	}
}

func TestEditSubmitsOnlyChangedFields(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(editTask())

	m.fb.title = "  Design landing page v2 "
	m.fb.priority = model.PriorityCritical

	msg := m.handleSubmit()()
	updated, ok := msg.(TaskUpdatedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "1", updated.ID)

	u := updated.Update
	require.NotNil(t, u.Title)
	assert.Equal(t, "Design landing page v2", *u.Title)
	require.NotNil(t, u.Priority)
	assert.Equal(t, model.PriorityCritical, *u.Priority)
	assert.Nil(t, u.Description)
	assert.Nil(t, u.Status)
	assert.Nil(t, u.AssigneeID)
	assert.Nil(t, u.DueDate)
}

func TestEditWithoutChangesCancels(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(editTask())

	assert.IsType(t, CancelMsg{}, m.handleSubmit()())
}

func TestCreateSubmitsEveryField(t *testing.T) {
	m := New(80, 24)
	m.StartCreate(model.StatusStuck)
	m.fb.title = " Investigate flaky deploy "

	msg := m.handleSubmit()()
	created, ok := msg.(TaskCreatedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, model.NewTask{
		Title:    "Investigate flaky deploy",
		Status:   model.StatusStuck,
		Priority: model.PriorityMedium,
	}, created.Task)
}
