package model

import (
	"fmt"
	"time"
)

// DateLayout is the format used for task due dates.
const DateLayout = "2006-01-02"

// Status is the lifecycle bucket a task belongs to. Every status can move
// to every other status; there is no terminal state.
type Status string

// Task status constants, in board column order.
const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusDone     Status = "done"
	StatusStuck    Status = "stuck"
)

var statuses = []Status{StatusTodo, StatusProgress, StatusDone, StatusStuck}

// Statuses returns all statuses in column order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusProgress, StatusDone, StatusStuck:
		return true
	}
	return false
}

// Title returns the column heading for the status.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	case StatusStuck:
		return "Stuck"
	}
	return string(s)
}

// Color returns the column accent color for the status.
func (s Status) Color() string {
	switch s {
	case StatusTodo:
		return "#c4c4c4"
	case StatusProgress:
		return "#fdab3d"
	case StatusDone:
		return "#00c875"
	case StatusStuck:
		return "#e2445c"
	}
	return "#c4c4c4"
}

// Index returns the column position of s, or -1 if s is unknown.
func (s Status) Index() int {
	for i, st := range statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Priority is the urgency classification of a task, independent of status.
type Priority string

// Priority constants, lowest first.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Priorities returns all priorities, lowest first.
func Priorities() []Priority {
	out := make([]Priority, len(priorities))
	copy(out, priorities)
	return out
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Label returns a capitalized display name.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return string(p)
}

// ParsePriority converts a raw string into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Task is a unit of work on a board.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Assignee    *User     `json:"assignee,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BoardID     string    `json:"board_id"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Assignee != nil {
		u := *t.Assignee
		t.Assignee = &u
	}
	return t
}

// AssigneeID returns the assignee's ID, or "" when the task is unassigned.
func (t Task) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return t.Assignee.ID
}

// Due parses the task's due date. ok is false when the task has no due
// date or the stored value is malformed.
func (t Task) Due() (due time.Time, ok bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsOverdue reports whether the task is past its due date on the given day
// and not yet done.
func (t Task) IsOverdue(today time.Time) bool {
	due, ok := t.Due()
	if !ok || t.Status == StatusDone {
		return false
	}
	y, m, d := today.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// NewTask carries the caller-supplied fields for a task being created.
// Zero values are replaced by defaults.
type NewTask struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	AssigneeID  string
	DueDate     string
}

// TaskUpdate is a partial update. Nil fields are left untouched. An empty
// AssigneeID or DueDate clears the field.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	AssigneeID  *string
	DueDate     *string
}

// IsZero reports whether the update sets no fields.
func (u TaskUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.AssigneeID == nil && u.DueDate == nil
}
