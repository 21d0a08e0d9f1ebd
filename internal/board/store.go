// Package board holds the in-memory board state: a Store per board that
// serializes mutations, plus the pure filter and projection functions the
// views are derived from.
package board

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nhle/workboard/internal/model"
)

// maxIDAttempts bounds how many times a colliding ID is redrawn.
const maxIDAttempts = 3

// Store is the single source of truth for one board. Mutations are
// serialized by a mutex and publish a fresh snapshot; readers load the
// latest snapshot without locking and always receive copies.
type Store struct {
	mu    sync.Mutex
	snap  atomic.Pointer[model.Board]
	now   func() time.Time
	newID func() (string, error)
	log   log.FieldLogger
}

// New creates a Store seeded with a copy of b. Tasks missing a BoardID or
// timestamps are normalized to the board.
func New(b model.Board, opts ...Option) *Store {
	s := &Store{
		now:   utcNow,
		newID: newUUID,
		log:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	seed := b.Clone()
	now := s.now()
	if seed.CreatedAt.IsZero() {
		seed.CreatedAt = now
	}
	if seed.UpdatedAt.Before(seed.CreatedAt) {
		seed.UpdatedAt = seed.CreatedAt
	}
	for i := range seed.Tasks {
		t := &seed.Tasks[i]
		t.BoardID = seed.ID
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
	}
	s.snap.Store(&seed)
	return s
}

// ID returns the board ID.
func (s *Store) ID() string { return s.snap.Load().ID }

// Name returns the board name.
func (s *Store) Name() string { return s.snap.Load().Name }

// Board returns a copy of the latest committed board.
func (s *Store) Board() model.Board {
	return s.snap.Load().Clone()
}

// Tasks returns a copy of the board's tasks in board order.
func (s *Store) Tasks() []model.Task {
	return s.Board().Tasks
}

// Members returns a copy of the board's members.
func (s *Store) Members() []model.User {
	b := s.snap.Load()
	out := make([]model.User, len(b.Members))
	copy(out, b.Members)
	return out
}

// Member looks up a board member by ID.
func (s *Store) Member(id string) (model.User, bool) {
	return s.snap.Load().Member(id)
}

// GetTask returns a copy of the task with the given ID.
func (s *Store) GetTask(id string) (model.Task, bool) {
	b := s.snap.Load()
	i := b.TaskIndex(id)
	if i < 0 {
		return model.Task{}, false
	}
	return b.Tasks[i].Clone(), true
}

// bucketPosition returns the task's status and its index within that status
// bucket.
func bucketPosition(b *model.Board, id string) (model.Status, int, bool) {
	i := b.TaskIndex(id)
	if i < 0 {
		return "", 0, false
	}
	status := b.Tasks[i].Status
	idx := 0
	for _, t := range b.Tasks[:i] {
		if t.Status == status {
			idx++
		}
	}
	return status, idx, true
}

// Columns filters the board's tasks and projects them into the four
// status columns.
func (s *Store) Columns(f Filter) []model.Column {
	return ProjectColumns(FilterTasks(s.snap.Load().Tasks, f))
}

// AddTask creates a task from in, filling defaults for omitted fields, and
// appends it to the board.
func (s *Store) AddTask(in model.NewTask) (model.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if in.Status == "" {
		in.Status = model.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if err := validateEnums(in.Status, in.Priority); err != nil {
		return model.Task{}, err
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return model.Task{}, err
	}

	var created model.Task
	err := s.mutate(func(b *model.Board) error {
		assignee, err := resolveAssignee(b, in.AssigneeID)
		if err != nil {
			return err
		}
		id, err := s.uniqueID(b)
		if err != nil {
			return err
		}

		now := latest(s.now(), b.UpdatedAt)
		t := model.Task{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			Priority:    in.Priority,
			Assignee:    assignee,
			DueDate:     in.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
			BoardID:     b.ID,
		}
		b.Tasks = append(b.Tasks, t)
		b.UpdatedAt = now
		created = t.Clone()
		return nil
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("adding task: %w", err)
	}

	s.log.WithFields(log.Fields{
		"board":  created.BoardID,
		"task":   created.ID,
		"status": created.Status,
	}).Debug("task added")
	return created, nil
}

// UpdateTask merges the set fields of u into the task with the given ID.
// An unknown ID yields ErrTaskNotFound and leaves the board untouched.
func (s *Store) UpdateTask(id string, u model.TaskUpdate) error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("updating task %s: %w: title must not be empty", id, ErrValidation)
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("updating task %s: %w: unknown status %q", id, ErrValidation, *u.Status)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return fmt.Errorf("updating task %s: %w: unknown priority %q", id, ErrValidation, *u.Priority)
	}
	if u.DueDate != nil {
		if err := validateDueDate(*u.DueDate); err != nil {
			return fmt.Errorf("updating task %s: %w", id, err)
		}
	}

	err := s.mutate(func(b *model.Board) error {
		i := b.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
		}
		t := &b.Tasks[i]

		if u.AssigneeID != nil {
			assignee, err := resolveAssignee(b, *u.AssigneeID)
			if err != nil {
				return err
			}
			t.Assignee = assignee
		}
		if u.Title != nil {
			t.Title = *u.Title
		}
		if u.Description != nil {
			t.Description = *u.Description
		}
		if u.Status != nil {
			t.Status = *u.Status
		}
		if u.Priority != nil {
			t.Priority = *u.Priority
		}
		if u.DueDate != nil {
			t.DueDate = *u.DueDate
		}

		now := s.now()
		t.UpdatedAt = latest(now, t.UpdatedAt)
		b.UpdatedAt = latest(now, b.UpdatedAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	s.log.WithFields(log.Fields{
		"board": s.ID(),
		"task":  id,
	}).Debug("task updated")
	return nil
}

// DeleteTask removes the task with the given ID from the board.
func (s *Store) DeleteTask(id string) error {
	err := s.mutate(func(b *model.Board) error {
		i := b.TaskIndex(id)
		if i < 0 {
			return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
		}
		b.Tasks = slices.Delete(b.Tasks, i, i+1)
		b.UpdatedAt = latest(s.now(), b.UpdatedAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.log.WithFields(log.Fields{
		"board": s.ID(),
		"task":  id,
	}).Debug("task deleted")
	return nil
}

// MoveTask changes a task's status. Moving a task to the status it already
// has only refreshes its timestamp; board order is never affected.
func (s *Store) MoveTask(id string, status model.Status) error {
	return s.UpdateTask(id, model.TaskUpdate{Status: &status})
}

// ReorderTasks moves the task at position from to position to within the
// given status bucket. The board's tasks are then laid out as all tasks of
// other statuses, in their existing order, followed by the reordered
// bucket.
//
// from must address a task in the bucket. to is clamped into the bucket,
// so any index past the end moves the task last. from == to is a no-op.
func (s *Store) ReorderTasks(status model.Status, from, to int) error {
	if !status.Valid() {
		return fmt.Errorf("reordering tasks: %w: unknown status %q", ErrValidation, status)
	}

	changed := false
	err := s.mutate(func(b *model.Board) error {
		var err error
		to, _, err = s.reorder(b, status, from, to)
		changed = err == nil
		return err
	})
	if err != nil {
		return fmt.Errorf("reordering tasks: %w", err)
	}
	if !changed {
		return nil
	}

	s.log.WithFields(log.Fields{
		"board":  s.ID(),
		"status": status,
		"from":   from,
		"to":     to,
	}).Debug("tasks reordered")
	return nil
}

// ShiftTask moves a task delta places within its status bucket, finding
// its position and reordering under one lock so that queued shifts of the
// same task compose. The target is clamped to the bucket; a shift that
// cannot move the task is a no-op. It returns the IDs of the tasks the
// task moved past, in bucket order.
func (s *Store) ShiftTask(id string, delta int) ([]string, error) {
	var (
		passed   []string
		status   model.Status
		from, to int
	)
	err := s.mutate(func(b *model.Board) error {
		var ok bool
		status, from, ok = bucketPosition(b, id)
		if !ok {
			return fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
		}
		var err error
		to, passed, err = s.reorder(b, status, from, from+delta)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("shifting task: %w", err)
	}
	if len(passed) == 0 {
		return nil, nil
	}

	s.log.WithFields(log.Fields{
		"board":  s.ID(),
		"task":   id,
		"status": status,
		"from":   from,
		"to":     to,
	}).Debug("task shifted")
	return passed, nil
}

// reorder moves the bucket task at from to the clamped index to, lays the
// board out as other statuses followed by the bucket, and returns the
// clamped index and the IDs of the tasks passed over. It returns
// errNoChange when from == to.
func (s *Store) reorder(b *model.Board, status model.Status, from, to int) (int, []string, error) {
	var bucket, others []model.Task
	for _, t := range b.Tasks {
		if t.Status == status {
			bucket = append(bucket, t)
		} else {
			others = append(others, t)
		}
	}

	if from < 0 || from >= len(bucket) {
		return to, nil, fmt.Errorf("%w: from index %d, %s has %d tasks",
			ErrIndexOutOfRange, from, status, len(bucket))
	}
	to = min(max(to, 0), len(bucket)-1)
	if from == to {
		return to, nil, errNoChange
	}

	var passed []string
	lo, hi := from+1, to+1
	if to < from {
		lo, hi = to, from
	}
	for _, t := range bucket[lo:hi] {
		passed = append(passed, t.ID)
	}

	moved := bucket[from]
	bucket = slices.Delete(bucket, from, from+1)
	bucket = slices.Insert(bucket, to, moved)

	b.Tasks = append(others, bucket...)
	b.UpdatedAt = latest(s.now(), b.UpdatedAt)
	return to, passed, nil
}

// errNoChange aborts a mutation without publishing a new snapshot and
// without surfacing an error to the caller.
var errNoChange = errors.New("no change")

// mutate applies fn to a private copy of the board and publishes the copy
// if fn succeeds.
func (s *Store) mutate(fn func(b *model.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Load().Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	s.snap.Store(&next)
	return nil
}

// latest keeps timestamps monotonic if the clock steps backwards.
func latest(now, prev time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}

func (s *Store) uniqueID(b *model.Board) (string, error) {
	for range maxIDAttempts {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if id != "" && b.TaskIndex(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique task id after %d attempts", maxIDAttempts)
}

func resolveAssignee(b *model.Board, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	u, ok := b.Member(id)
	if !ok {
		return nil, fmt.Errorf("%w: user %s is not a member of board %s", ErrValidation, id, b.ID)
	}
	return &u, nil
}

func validateEnums(status model.Status, priority model.Priority) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if !priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}
	return nil
}

func validateDueDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrValidation, s)
	}
	return nil
}
