package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

func TestCalendarGrid(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", DueDate: "2024-01-25", Priority: model.PriorityHigh},
		{ID: "b", DueDate: "2024-01-25", Priority: model.PriorityLow},
		{ID: "c", DueDate: "2024-02-05"},
		{ID: "d"},
		{ID: "e", DueDate: "not a date"},
	}

	cm := Calendar(tasks, 2024, time.January)

	// January 2024 starts on a Monday and ends on a Wednesday.
	require.Len(t, cm.Weeks, 5)
	first := cm.Weeks[0][0]
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), first.Date)
	assert.False(t, first.InMonth)
	assert.True(t, cm.Weeks[0][1].InMonth)

	last := cm.Weeks[4][6]
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), last.Date)
	assert.False(t, last.InMonth)

	// The 25th is a Thursday in the fourth week.
	day := cm.Weeks[3][4]
	assert.Equal(t, 25, day.Date.Day())
	assert.Equal(t, []string{"a", "b"}, taskIDs(day.Tasks))

	inMonth := 0
	withTasks := 0
	for _, w := range cm.Weeks {
		for _, d := range w {
			if d.InMonth {
				inMonth++
			}
			withTasks += len(d.Tasks)
		}
	}
	assert.Equal(t, DaysInMonth(2024, time.January), inMonth)
	assert.Equal(t, 2, withTasks)
}

func TestCalendarFebruaryLeapYear(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))

	cm := Calendar(nil, 2026, time.February)
	// February 2026 starts on a Sunday and fills exactly four weeks.
	assert.Len(t, cm.Weeks, 4)
	assert.True(t, cm.Weeks[0][0].InMonth)
}

func TestTasksDueOn(t *testing.T) {
	tasks := []model.Task{{ID: "a", DueDate: "2024-01-25"}, {ID: "b", DueDate: "2024-01-26"}}
	got := TasksDueOn(tasks, time.Date(2024, 1, 25, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"a"}, taskIDs(got))
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, "#ef4444", PriorityColor(model.PriorityCritical))
	assert.Equal(t, "#f97316", PriorityColor(model.PriorityHigh))
	assert.Equal(t, "#eab308", PriorityColor(model.PriorityMedium))
	assert.Equal(t, "#22c55e", PriorityColor(model.PriorityLow))
}
