package board

import (
	"slices"
	"strings"
	"time"

	"github.com/nhle/workboard/internal/model"
)

// Summary holds the headline counts shown on the home dashboard.
type Summary struct {
	Total      int
	ByStatus   map[model.Status]int
	Completed  int
	InProgress int
	Stuck      int
	Overdue    int
}

// Summarize counts tasks by status. Overdue tasks are those past their due
// date on today that are not done.
func Summarize(tasks []model.Task, today time.Time) Summary {
	s := Summary{
		Total:    len(tasks),
		ByStatus: make(map[model.Status]int, 4),
	}
	for _, st := range model.Statuses() {
		s.ByStatus[st] = 0
	}
	for _, t := range tasks {
		s.ByStatus[t.Status]++
		if t.IsOverdue(today) {
			s.Overdue++
		}
	}
	s.Completed = s.ByStatus[model.StatusDone]
	s.InProgress = s.ByStatus[model.StatusProgress]
	s.Stuck = s.ByStatus[model.StatusStuck]
	return s
}

// CompletionRate returns the share of done tasks as a whole percentage.
func (s Summary) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// RecentActivity returns up to n tasks, most recently updated first. Ties
// keep board order.
func RecentActivity(tasks []model.Task, n int) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	slices.SortStableFunc(out, func(a, b model.Task) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// MemberStats is a team member with their workload on a board.
type MemberStats struct {
	User       model.User
	Assigned   int
	Completed  int
	InProgress int
}

// TeamStats computes per-member task counts, in member order.
func TeamStats(members []model.User, tasks []model.Task) []MemberStats {
	idx := make(map[string]int, len(members))
	out := make([]MemberStats, len(members))
	for i, u := range members {
		out[i] = MemberStats{User: u}
		idx[u.ID] = i
	}
	for _, t := range tasks {
		i, ok := idx[t.AssigneeID()]
		if !ok {
			continue
		}
		out[i].Assigned++
		switch t.Status {
		case model.StatusDone:
			out[i].Completed++
		case model.StatusProgress:
			out[i].InProgress++
		}
	}
	return out
}

// MemberFilter narrows the team directory. Department and Role accept
// FilterAll or "" to match everyone.
type MemberFilter struct {
	Search     string
	Department string
	Role       string
}

// FilterMembers keeps members whose name, email or role contains the
// search term (case-insensitive) and whose department and role match.
func FilterMembers(stats []MemberStats, f MemberFilter) []MemberStats {
	term := strings.ToLower(f.Search)
	var out []MemberStats
	for _, m := range stats {
		if term != "" &&
			!strings.Contains(strings.ToLower(m.User.Name), term) &&
			!strings.Contains(strings.ToLower(m.User.Email), term) &&
			!strings.Contains(strings.ToLower(m.User.Role), term) {
			continue
		}
		if !matchesOption(f.Department, m.User.Department) || !matchesOption(f.Role, m.User.Role) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesOption(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

// Departments returns the distinct, sorted departments of the members.
func Departments(members []model.User) []string {
	return distinct(members, func(u model.User) string { return u.Department })
}

// Roles returns the distinct, sorted roles of the members.
func Roles(members []model.User) []string {
	return distinct(members, func(u model.User) string { return u.Role })
}

func distinct(members []model.User, attr func(model.User) string) []string {
	var out []string
	for _, u := range members {
		if v := attr(u); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
