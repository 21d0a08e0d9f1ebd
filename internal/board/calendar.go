package board

import (
	"time"

	"github.com/nhle/workboard/internal/model"
)

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date    time.Time
	InMonth bool
	Tasks   []model.Task
}

// CalendarMonth is a Sunday-first grid covering every day of a month,
// padded with days from the neighbouring months to fill whole weeks.
type CalendarMonth struct {
	Year  int
	Month time.Month
	Weeks [][7]CalendarDay
}

// Calendar lays out the tasks that have a due date on a month grid.
// Tasks without a parseable due date are left out.
func Calendar(tasks []model.Task, year int, month time.Month) CalendarMonth {
	byDay := make(map[string][]model.Task)
	for _, t := range tasks {
		due, ok := t.Due()
		if !ok {
			continue
		}
		key := due.Format(model.DateLayout)
		byDay[key] = append(byDay[key], t.Clone())
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	day := first.AddDate(0, 0, -int(first.Weekday()))

	cm := CalendarMonth{Year: year, Month: month}
	for !day.After(last) {
		var week [7]CalendarDay
		for i := range week {
			week[i] = CalendarDay{
				Date:    day,
				InMonth: day.Month() == month,
				Tasks:   byDay[day.Format(model.DateLayout)],
			}
			day = day.AddDate(0, 0, 1)
		}
		cm.Weeks = append(cm.Weeks, week)
	}
	return cm
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TasksDueOn returns the tasks due on the given calendar day.
func TasksDueOn(tasks []model.Task, day time.Time) []model.Task {
	key := day.Format(model.DateLayout)
	var out []model.Task
	for _, t := range tasks {
		if t.DueDate == key {
			out = append(out, t.Clone())
		}
	}
	return out
}

// PriorityColor returns the calendar event color for a priority.
func PriorityColor(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "#ef4444"
	case model.PriorityHigh:
		return "#f97316"
	case model.PriorityMedium:
		return "#eab308"
	default:
		return "#22c55e"
	}
}
