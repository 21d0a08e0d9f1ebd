package seed

import (
	"time"

	"github.com/nhle/workboard/internal/model"
)

// DemoBoardID is the ID of the board returned by Demo.
const DemoBoardID = "board1"

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

// DemoUsers returns the sample team used by Demo.
func DemoUsers() []model.User {
	return []model.User{
		{ID: "1", Name: "John Doe", Email: "john@company.com", Color: "#0073ea", Role: "Product Manager", Department: "Engineering"},
		{ID: "2", Name: "Sarah Wilson", Email: "sarah@company.com", Color: "#00c875", Role: "Senior Developer", Department: "Design"},
		{ID: "3", Name: "Mike Johnson", Email: "mike@company.com", Color: "#ff9500", Role: "UI/UX Designer", Department: "Product"},
		{ID: "4", Name: "Emily Davis", Email: "emily@company.com", Color: "#a25ddc", Role: "DevOps Engineer", Department: "Marketing"},
	}
}

// Demo returns a fresh copy of the built-in "Product Development" board.
func Demo() model.Board {
	users := DemoUsers()
	assignee := func(i int) *model.User {
		u := users[i-1]
		return &u
	}

	task := func(id, title, desc string, st model.Status, p model.Priority, who int, due string, created, updated time.Time) model.Task {
		return model.Task{
			ID:          id,
			Title:       title,
			Description: desc,
			Status:      st,
			Priority:    p,
			Assignee:    assignee(who),
			DueDate:     due,
			CreatedAt:   created,
			UpdatedAt:   updated,
			BoardID:     DemoBoardID,
		}
	}

	return model.Board{
		ID:          DemoBoardID,
		Name:        "Product Development",
		Description: "Main board for tracking product development tasks and milestones",
		Color:       "#0073ea",
		Members:     users,
		CreatedAt:   day(time.January, 1),
		UpdatedAt:   day(time.January, 22),
		Tasks: []model.Task{
			task("1", "Design new landing page", "Create wireframes and mockups for the new product landing page",
				model.StatusProgress, model.PriorityHigh, 1, "2024-01-25", day(time.January, 15), day(time.January, 20)),
			task("2", "Implement user authentication", "Set up login, registration, and password reset functionality",
				model.StatusTodo, model.PriorityCritical, 2, "2024-01-30", day(time.January, 15), day(time.January, 15)),
			task("3", "Write API documentation", "Document all REST API endpoints with examples",
				model.StatusDone, model.PriorityMedium, 3, "2024-01-20", day(time.January, 10), day(time.January, 19)),
			task("4", "Fix mobile responsive issues", "Address layout problems on mobile devices",
				model.StatusStuck, model.PriorityHigh, 4, "2024-01-22", day(time.January, 12), day(time.January, 21)),
			task("5", "Set up CI/CD pipeline", "Configure automated testing and deployment",
				model.StatusTodo, model.PriorityMedium, 2, "2024-02-05", day(time.January, 18), day(time.January, 18)),
			task("6", "User testing session", "Conduct usability testing with 10 users",
				model.StatusProgress, model.PriorityLow, 1, "2024-02-10", day(time.January, 16), day(time.January, 22)),
		},
	}
}
