package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

func sampleTasks() []model.Task {
	a, b := alice, bob
	return []model.Task{
		{ID: "1", Title: "Design new landing page", Description: "Hero section", Status: model.StatusProgress, Priority: model.PriorityHigh, Assignee: &a},
		{ID: "2", Title: "Implement user authentication", Description: "OAuth login", Status: model.StatusTodo, Priority: model.PriorityCritical, Assignee: &b},
		{ID: "3", Title: "Write API documentation", Status: model.StatusDone, Priority: model.PriorityMedium},
		{ID: "4", Title: "Fix mobile issues", Description: "Landing layout breaks", Status: model.StatusStuck, Priority: model.PriorityHigh, Assignee: &a},
	}
}

func TestFilterTasksDefaultReturnsInput(t *testing.T) {
	tasks := sampleTasks()
	got := FilterTasks(tasks, DefaultFilter())
	assert.Empty(t, cmp.Diff(tasks, got))
	assert.False(t, DefaultFilter().Active())
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"search title case-insensitive", Filter{Search: "LANDING", Priority: FilterAll, AssigneeID: FilterAll}, []string{"1", "4"}},
		{"search description", Filter{Search: "oauth", Priority: FilterAll, AssigneeID: FilterAll}, []string{"2"}},
		{"search matches description only", Filter{Search: "hero", Priority: FilterAll, AssigneeID: FilterAll}, []string{"1"}},
		{"search no match", Filter{Search: "zzz", Priority: FilterAll, AssigneeID: FilterAll}, []string{}},
		{"priority", Filter{Priority: "high", AssigneeID: FilterAll}, []string{"1", "4"}},
		{"empty priority passes", Filter{Priority: "", AssigneeID: FilterAll}, []string{"1", "2", "3", "4"}},
		{"assignee", Filter{Priority: FilterAll, AssigneeID: bob.ID}, []string{"2"}},
		{"unassigned", Filter{Priority: FilterAll, AssigneeID: ""}, []string{"3"}},
		{"unknown assignee", Filter{Priority: FilterAll, AssigneeID: "99"}, []string{}},
		{"all predicates", Filter{Search: "landing", Priority: "high", AssigneeID: alice.ID}, []string{"1", "4"}},
		{"predicates are ANDed", Filter{Search: "landing", Priority: "critical", AssigneeID: FilterAll}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTasks(sampleTasks(), tt.filter)
			assert.Equal(t, tt.want, taskIDs(got))
		})
	}
}

func TestFilterTasksNeverInventsTasks(t *testing.T) {
	tasks := sampleTasks()
	inInput := make(map[string]bool)
	for _, task := range tasks {
		inInput[task.ID] = true
	}

	for _, f := range []Filter{
		DefaultFilter(),
		{Search: "a", Priority: FilterAll, AssigneeID: FilterAll},
		{Priority: "medium", AssigneeID: ""},
	} {
		for _, task := range FilterTasks(tasks, f) {
			assert.True(t, inInput[task.ID])
		}
	}
}

func TestFilterTasksDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := sampleTasks()

	got := FilterTasks(tasks, Filter{Priority: "high", AssigneeID: FilterAll})
	require.NotEmpty(t, got)
	got[0].Title = "changed"
	got[0].Assignee.Name = "changed"

	assert.Empty(t, cmp.Diff(before, tasks))
}

func TestFilterActive(t *testing.T) {
	assert.True(t, Filter{Search: "x", Priority: FilterAll, AssigneeID: FilterAll}.Active())
	assert.True(t, Filter{Priority: "low", AssigneeID: FilterAll}.Active())
	assert.True(t, Filter{Priority: FilterAll, AssigneeID: ""}.Active())
}
