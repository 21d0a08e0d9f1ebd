package board

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

var (
	alice = model.User{ID: "1", Name: "Alice Doe", Email: "alice@company.com", Color: "#0073ea"}
	bob   = model.User{ID: "2", Name: "Bob Wilson", Email: "bob@company.com", Color: "#00c875"}
)

// tickClock advances by one second every time it is read.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("task-%d", n), nil
	}
}

func newTestStore(t *testing.T, tasks ...model.Task) *Store {
	t.Helper()
	clock := &tickClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	return New(model.Board{
		ID:      "board1",
		Name:    "Product Development",
		Members: []model.User{alice, bob},
		Tasks:   tasks,
	}, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestAddTaskDefaults(t *testing.T) {
	s := newTestStore(t)

	task, err := s.AddTask(model.NewTask{Title: "Write docs"})
	require.NoError(t, err)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Nil(t, task.Assignee)
	assert.Empty(t, task.DueDate)
	assert.Empty(t, task.Description)
	assert.Equal(t, "board1", task.BoardID)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	b := s.Board()
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, task.UpdatedAt, b.UpdatedAt)

	got, ok := s.GetTask(task.ID)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(task, got))
}

func TestAddTaskResolvesAssignee(t *testing.T) {
	s := newTestStore(t)

	task, err := s.AddTask(model.NewTask{
		Title:      "Review PR",
		AssigneeID: bob.ID,
		Priority:   model.PriorityHigh,
		Status:     model.StatusProgress,
		DueDate:    "2024-02-05",
	})
	require.NoError(t, err)

	require.NotNil(t, task.Assignee)
	assert.Equal(t, bob, *task.Assignee)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, model.StatusProgress, task.Status)
	assert.Equal(t, "2024-02-05", task.DueDate)
}

func TestAddTaskGeneratesUniqueIDs(t *testing.T) {
	s := New(model.Board{ID: "b"})

	seen := make(map[string]bool)
	for i := range 200 {
		task, err := s.AddTask(model.NewTask{Title: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
		require.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	}
	assert.Len(t, s.Tasks(), 200)
}

func TestAddTaskRedrawsCollidingID(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	gen := func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
	s := New(model.Board{ID: "b", Tasks: []model.Task{{ID: "dup", Title: "existing"}}},
		WithIDGenerator(gen))

	task, err := s.AddTask(model.NewTask{Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", task.ID)
}

func TestAddTaskGivesUpOnPersistentCollision(t *testing.T) {
	s := New(model.Board{ID: "b", Tasks: []model.Task{{ID: "dup", Title: "existing"}}},
		WithIDGenerator(func() (string, error) { return "dup", nil }))

	_, err := s.AddTask(model.NewTask{Title: "new"})
	assert.Error(t, err)
	assert.Len(t, s.Tasks(), 1)
}

func TestAddTaskValidation(t *testing.T) {
	tests := []struct {
		name string
		in   model.NewTask
	}{
		{"empty title", model.NewTask{}},
		{"whitespace title", model.NewTask{Title: "  \t "}},
		{"unknown status", model.NewTask{Title: "x", Status: "blocked"}},
		{"unknown priority", model.NewTask{Title: "x", Priority: "urgent"}},
		{"malformed due date", model.NewTask{Title: "x", DueDate: "01/25/2024"}},
		{"non-member assignee", model.NewTask{Title: "x", AssigneeID: "99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			before := s.Board()

			_, err := s.AddTask(tt.in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, cmp.Diff(before, s.Board()))
		})
	}
}

func TestUpdateTaskMergesFields(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.AddTask(model.NewTask{
		Title:       "Design landing page",
		Description: "hero + pricing",
		AssigneeID:  alice.ID,
		DueDate:     "2024-01-25",
	})
	require.NoError(t, err)

	title := "Design new landing page"
	require.NoError(t, s.UpdateTask(orig.ID, model.TaskUpdate{Title: &title}))

	got, ok := s.GetTask(orig.ID)
	require.True(t, ok)
	assert.Equal(t, title, got.Title)
	assert.True(t, got.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)

	diff := cmp.Diff(orig, got, cmpopts.IgnoreFields(model.Task{}, "Title", "UpdatedAt"))
	assert.Empty(t, diff, "untouched fields changed")

	assert.Equal(t, got.UpdatedAt, s.Board().UpdatedAt)
}

func TestUpdateTaskClearsOptionalFields(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.AddTask(model.NewTask{Title: "x", AssigneeID: alice.ID, DueDate: "2024-01-25"})
	require.NoError(t, err)

	empty := ""
	require.NoError(t, s.UpdateTask(orig.ID, model.TaskUpdate{AssigneeID: &empty, DueDate: &empty}))

	got, _ := s.GetTask(orig.ID)
	assert.Nil(t, got.Assignee)
	assert.Empty(t, got.DueDate)
}

func TestUpdateTaskReassigns(t *testing.T) {
	s := newTestStore(t)
	orig, err := s.AddTask(model.NewTask{Title: "x", AssigneeID: alice.ID})
	require.NoError(t, err)

	id := bob.ID
	require.NoError(t, s.UpdateTask(orig.ID, model.TaskUpdate{AssigneeID: &id}))

	got, _ := s.GetTask(orig.ID)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, bob.ID, got.Assignee.ID)
}

func TestUpdateTaskUnknownIDLeavesBoardUnchanged(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddTask(model.NewTask{Title: "a"})
	require.NoError(t, err)
	before := s.Board()

	title := "b"
	err = s.UpdateTask("missing", model.TaskUpdate{Title: &title})
	require.ErrorIs(t, err, ErrTaskNotFound)

	assert.Empty(t, cmp.Diff(before, s.Board()))
}

func TestUpdateTaskValidation(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.NewTask{Title: "a"})
	require.NoError(t, err)
	before := s.Board()

	blank := " "
	badStatus := model.Status("archived")
	badPriority := model.Priority("p0")
	badDate := "tomorrow"
	stranger := "42"

	for name, u := range map[string]model.TaskUpdate{
		"blank title":  {Title: &blank},
		"bad status":   {Status: &badStatus},
		"bad priority": {Priority: &badPriority},
		"bad due date": {DueDate: &badDate},
		"non-member":   {AssigneeID: &stranger},
	} {
		t.Run(name, func(t *testing.T) {
			err := s.UpdateTask(task.ID, u)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, cmp.Diff(before, s.Board()))
		})
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "a", Title: "A", Status: model.StatusTodo},
		model.Task{ID: "b", Title: "B", Status: model.StatusDone},
		model.Task{ID: "c", Title: "C", Status: model.StatusTodo},
	)
	before := s.Board()

	require.NoError(t, s.DeleteTask("b"))
	assert.Equal(t, []string{"a", "c"}, taskIDs(s.Tasks()))
	assert.True(t, s.Board().UpdatedAt.After(before.UpdatedAt))

	_, ok := s.GetTask("b")
	assert.False(t, ok)
}

func TestDeleteTaskUnknownID(t *testing.T) {
	s := newTestStore(t, model.Task{ID: "a", Title: "A", Status: model.StatusTodo})
	before := s.Board()

	err := s.DeleteTask("missing")
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.Empty(t, cmp.Diff(before, s.Board()))
}

func TestMoveTaskIsIdempotent(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "a", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "b", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "c", Title: "C", Status: model.StatusDone, Priority: model.PriorityLow},
	)

	require.NoError(t, s.MoveTask("a", model.StatusStuck))
	first := s.Tasks()
	require.NoError(t, s.MoveTask("a", model.StatusStuck))
	second := s.Tasks()

	assert.Equal(t, taskIDs(first), taskIDs(second))
	assert.Empty(t, cmp.Diff(first, second, cmpopts.IgnoreFields(model.Task{}, "UpdatedAt")))
	assert.False(t, second[0].UpdatedAt.Before(first[0].UpdatedAt))
}

func TestMoveTaskAnyTransition(t *testing.T) {
	for _, from := range model.Statuses() {
		for _, to := range model.Statuses() {
			s := newTestStore(t, model.Task{ID: "a", Title: "A", Status: from, Priority: model.PriorityLow})
			require.NoError(t, s.MoveTask("a", to), "%s -> %s", from, to)
			got, _ := s.GetTask("a")
			assert.Equal(t, to, got.Status)
		}
	}
}

func TestMoveTaskUnknownID(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.MoveTask("missing", model.StatusDone), ErrTaskNotFound)
}

func TestReorderWithinBucket(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityHigh},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusDone, Priority: model.PriorityMedium},
	)

	require.NoError(t, s.ReorderTasks(model.StatusTodo, 0, 1))

	cols := s.Columns(DefaultFilter())
	assert.Equal(t, []string{"B", "A"}, taskIDs(cols[0].Tasks))
	assert.Equal(t, []string{"C"}, taskIDs(cols[2].Tasks))
}

func TestReorderPlacesOtherTasksFirst(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusDone, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "D", Title: "D", Status: model.StatusStuck, Priority: model.PriorityLow},
	)

	require.NoError(t, s.ReorderTasks(model.StatusTodo, 1, 0))
	assert.Equal(t, []string{"C", "D", "B", "A"}, taskIDs(s.Tasks()))
}

func TestReorderSameIndexIsNoop(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusDone, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
	)
	before := s.Board()

	for i := range 2 {
		require.NoError(t, s.ReorderTasks(model.StatusTodo, i, i))
	}
	assert.Empty(t, cmp.Diff(before, s.Board()))
}

func TestReorderClampsTargetIndex(t *testing.T) {
	tasks := []model.Task{
		{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		{ID: "C", Title: "C", Status: model.StatusTodo, Priority: model.PriorityLow},
	}

	s := newTestStore(t, tasks...)
	require.NoError(t, s.ReorderTasks(model.StatusTodo, 0, 99))
	assert.Equal(t, []string{"B", "C", "A"}, taskIDs(s.Tasks()))

	s = newTestStore(t, tasks...)
	require.NoError(t, s.ReorderTasks(model.StatusTodo, 2, -5))
	assert.Equal(t, []string{"C", "A", "B"}, taskIDs(s.Tasks()))
}

func TestReorderRejectsBadSourceIndex(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusDone, Priority: model.PriorityLow},
	)
	before := s.Board()

	for _, from := range []int{-1, 1, 5} {
		err := s.ReorderTasks(model.StatusTodo, from, 0)
		require.ErrorIs(t, err, ErrIndexOutOfRange, "from=%d", from)
	}
	require.ErrorIs(t, s.ReorderTasks(model.StatusProgress, 0, 0), ErrIndexOutOfRange)
	require.ErrorIs(t, s.ReorderTasks("bogus", 0, 1), ErrValidation)

	assert.Empty(t, cmp.Diff(before, s.Board()))
}

func TestAddMoveThenFilterByPriority(t *testing.T) {
	s := newTestStore(t)

	x, err := s.AddTask(model.NewTask{Title: "X"})
	require.NoError(t, err)
	require.NoError(t, s.MoveTask(x.ID, model.StatusStuck))

	f := DefaultFilter()
	f.Priority = string(model.PriorityCritical)
	assert.Empty(t, FilterTasks(s.Tasks(), f))

	f.Priority = string(model.PriorityMedium)
	got := FilterTasks(s.Tasks(), f)
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusStuck, got[0].Status)
}

func TestBucketPosition(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusDone, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
	)
	b := s.Board()

	st, idx, ok := bucketPosition(&b, "B")
	require.True(t, ok)
	assert.Equal(t, model.StatusTodo, st)
	assert.Equal(t, 1, idx)

	st, idx, ok = bucketPosition(&b, "C")
	require.True(t, ok)
	assert.Equal(t, model.StatusDone, st)
	assert.Equal(t, 0, idx)

	_, _, ok = bucketPosition(&b, "missing")
	assert.False(t, ok)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(model.NewTask{Title: "A", AssigneeID: alice.ID})
	require.NoError(t, err)

	b := s.Board()
	b.Tasks[0].Title = "mutated"
	b.Tasks[0].Assignee.Name = "mutated"
	b.Members[0].Name = "mutated"

	got, _ := s.GetTask(task.ID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, alice.Name, got.Assignee.Name)
	assert.Equal(t, alice.Name, s.Members()[0].Name)
}

func TestTimestampsNeverGoBackwards(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	s := New(model.Board{ID: "b"}, WithClock(func() time.Time { return now }))

	task, err := s.AddTask(model.NewTask{Title: "A"})
	require.NoError(t, err)

	now = now.Add(-time.Hour)
	require.NoError(t, s.MoveTask(task.ID, model.StatusDone))

	got, _ := s.GetTask(task.ID)
	assert.Equal(t, task.UpdatedAt, got.UpdatedAt)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestNewNormalizesSeed(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, model.Task{ID: "a", Title: "A", Status: model.StatusTodo, CreatedAt: created})

	got, _ := s.GetTask("a")
	assert.Equal(t, "board1", got.BoardID)
	assert.Equal(t, created, got.UpdatedAt)
}

func TestConcurrentMutations(t *testing.T) {
	s := New(model.Board{ID: "b", Members: []model.User{alice}})

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			task, err := s.AddTask(model.NewTask{Title: fmt.Sprintf("t%d", i)})
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, s.MoveTask(task.ID, model.StatusProgress))
		}()
		go func() {
			defer wg.Done()
			_ = s.Columns(DefaultFilter())
			_, _ = s.GetTask("none")
		}()
	}
	wg.Wait()

	cols := s.Columns(DefaultFilter())
	assert.Len(t, cols[1].Tasks, writers)

	seen := make(map[string]bool)
	for _, task := range s.Tasks() {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestShiftTaskQueuedShiftsCompose(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusTodo, Priority: model.PriorityLow},
	)

	// Two "move A down" presses issued before either one lands.
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ShiftTask("A", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"B", "C", "A"}, taskIDs(s.Tasks()))
}

func TestShiftTaskReportsPassedTasks(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "X", Title: "X", Status: model.StatusDone, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "C", Title: "C", Status: model.StatusTodo, Priority: model.PriorityLow},
	)

	passed, err := s.ShiftTask("C", -5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, passed)
	assert.Equal(t, []string{"X", "C", "A", "B"}, taskIDs(s.Tasks()))

	passed, err = s.ShiftTask("A", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, passed)
	assert.Equal(t, []string{"X", "C", "B", "A"}, taskIDs(s.Tasks()))
}

func TestShiftTaskAtEdgeIsNoop(t *testing.T) {
	s := newTestStore(t,
		model.Task{ID: "A", Title: "A", Status: model.StatusTodo, Priority: model.PriorityLow},
		model.Task{ID: "B", Title: "B", Status: model.StatusTodo, Priority: model.PriorityLow},
	)
	before := s.Board()

	passed, err := s.ShiftTask("A", -1)
	require.NoError(t, err)
	assert.Empty(t, passed)
	assert.Equal(t, before.UpdatedAt, s.Board().UpdatedAt)
	assert.Equal(t, []string{"A", "B"}, taskIDs(s.Tasks()))
}

func TestShiftTaskUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ShiftTask("missing", 1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
