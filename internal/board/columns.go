package board

import "github.com/nhle/workboard/internal/model"

// ProjectColumns groups tasks into the four status columns, in the fixed
// order To Do, In Progress, Done, Stuck. Each column keeps the input order
// of its tasks. Columns are always returned, empty or not.
func ProjectColumns(tasks []model.Task) []model.Column {
	statuses := model.Statuses()
	cols := make([]model.Column, len(statuses))
	for i, st := range statuses {
		cols[i] = model.Column{
			ID:    st,
			Title: st.Title(),
			Color: st.Color(),
			Tasks: []model.Task{},
		}
	}

	for _, t := range tasks {
		i := t.Status.Index()
		if i < 0 {
			// Unknown statuses cannot enter a Store; treat stray input as todo.
			i = 0
		}
		cols[i].Tasks = append(cols[i].Tasks, t.Clone())
	}
	return cols
}

