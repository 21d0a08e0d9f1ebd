package board

import (
	"strings"

	"github.com/nhle/workboard/internal/model"
)

// FilterAll is the Priority/AssigneeID value that matches every task.
const FilterAll = "all"

// Filter narrows the tasks shown on a board. All predicates are ANDed.
//
// AssigneeID is FilterAll for every task, "" for unassigned tasks only, or
// a user ID. Priority is FilterAll (or "") for every task, or a priority.
type Filter struct {
	Search     string
	Priority   string
	AssigneeID string
}

// DefaultFilter returns a filter that matches every task.
func DefaultFilter() Filter {
	return Filter{Priority: FilterAll, AssigneeID: FilterAll}
}

// Active reports whether f hides anything.
func (f Filter) Active() bool {
	return f.Search != "" ||
		(f.Priority != FilterAll && f.Priority != "") ||
		f.AssigneeID != FilterAll
}

// Match reports whether t passes every predicate of f.
func (f Filter) Match(t model.Task) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if f.Priority != FilterAll && f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	if f.AssigneeID != FilterAll && t.AssigneeID() != f.AssigneeID {
		return false
	}
	return true
}

// FilterTasks returns copies of the tasks that match f, in input order.
// The input slice is not modified.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
