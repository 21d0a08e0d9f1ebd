// Package seed loads boards from YAML seed files and writes them back out.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/workboard/internal/model"
)

// ErrInvalid wraps every structural problem found in a seed document.
var ErrInvalid = errors.New("invalid seed")

type document struct {
	Users  []model.User `yaml:"users"`
	Boards []boardDoc   `yaml:"boards"`
}

type boardDoc struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Color       string    `yaml:"color,omitempty"`
	Members     []string  `yaml:"members"`
	Tasks       []taskDoc `yaml:"tasks"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty"`
}

type taskDoc struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Status      string    `yaml:"status,omitempty"`
	Priority    string    `yaml:"priority,omitempty"`
	Assignee    string    `yaml:"assignee,omitempty"`
	DueDate     string    `yaml:"due_date,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty"`
}

// LoadFile reads boards from the YAML file at path.
func LoadFile(path string) ([]model.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed %s: %w", path, err)
	}
	boards, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return boards, nil
}

// Parse decodes and validates a seed document. Tasks reference users by
// ID; every referenced user must be defined and a member of the board.
func Parse(r io.Reader) ([]model.Board, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	users := make(map[string]model.User, len(doc.Users))
	for _, u := range doc.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("%w: user %q has no id", ErrInvalid, u.Name)
		}
		if _, dup := users[u.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate user id %s", ErrInvalid, u.ID)
		}
		users[u.ID] = u
	}

	boardIDs := make(map[string]bool, len(doc.Boards))
	boards := make([]model.Board, 0, len(doc.Boards))
	for _, bd := range doc.Boards {
		if bd.ID == "" {
			return nil, fmt.Errorf("%w: board %q has no id", ErrInvalid, bd.Name)
		}
		if boardIDs[bd.ID] {
			return nil, fmt.Errorf("%w: duplicate board id %s", ErrInvalid, bd.ID)
		}
		boardIDs[bd.ID] = true

		b, err := buildBoard(bd, users)
		if err != nil {
			return nil, fmt.Errorf("board %s: %w", bd.ID, err)
		}
		boards = append(boards, b)
	}
	return boards, nil
}

func buildBoard(bd boardDoc, users map[string]model.User) (model.Board, error) {
	b := model.Board{
		ID:          bd.ID,
		Name:        bd.Name,
		Description: bd.Description,
		Color:       bd.Color,
		CreatedAt:   bd.CreatedAt,
		UpdatedAt:   bd.UpdatedAt,
		Tasks:       make([]model.Task, 0, len(bd.Tasks)),
	}

	for _, id := range bd.Members {
		u, ok := users[id]
		if !ok {
			return model.Board{}, fmt.Errorf("%w: unknown member %s", ErrInvalid, id)
		}
		b.Members = append(b.Members, u)
	}

	taskIDs := make(map[string]bool, len(bd.Tasks))
	for _, td := range bd.Tasks {
		t, err := buildTask(td, b)
		if err != nil {
			return model.Board{}, err
		}
		if taskIDs[t.ID] {
			return model.Board{}, fmt.Errorf("%w: duplicate task id %s", ErrInvalid, t.ID)
		}
		taskIDs[t.ID] = true
		b.Tasks = append(b.Tasks, t)
	}
	return b, nil
}

func buildTask(td taskDoc, b model.Board) (model.Task, error) {
	if td.ID == "" {
		return model.Task{}, fmt.Errorf("%w: task %q has no id", ErrInvalid, td.Title)
	}
	if strings.TrimSpace(td.Title) == "" {
		return model.Task{}, fmt.Errorf("%w: task %s has no title", ErrInvalid, td.ID)
	}

	t := model.Task{
		ID:          td.ID,
		Title:       td.Title,
		Description: td.Description,
		Status:      model.StatusTodo,
		Priority:    model.PriorityMedium,
		DueDate:     td.DueDate,
		CreatedAt:   td.CreatedAt,
		UpdatedAt:   td.UpdatedAt,
		BoardID:     b.ID,
	}

	if td.Status != "" {
		st, err := model.ParseStatus(td.Status)
		if err != nil {
			return model.Task{}, fmt.Errorf("%w: task %s: %v", ErrInvalid, td.ID, err)
		}
		t.Status = st
	}
	if td.Priority != "" {
		p, err := model.ParsePriority(td.Priority)
		if err != nil {
			return model.Task{}, fmt.Errorf("%w: task %s: %v", ErrInvalid, td.ID, err)
		}
		t.Priority = p
	}
	if td.DueDate != "" {
		if _, err := time.Parse(model.DateLayout, td.DueDate); err != nil {
			return model.Task{}, fmt.Errorf("%w: task %s: due date %q is not YYYY-MM-DD", ErrInvalid, td.ID, td.DueDate)
		}
	}
	if td.Assignee != "" {
		u, ok := b.Member(td.Assignee)
		if !ok {
			return model.Task{}, fmt.Errorf("%w: task %s: assignee %s is not a board member", ErrInvalid, td.ID, td.Assignee)
		}
		t.Assignee = &u
	}
	return t, nil
}

// Export writes boards as a seed document that Parse accepts.
func Export(w io.Writer, boards []model.Board) error {
	var doc document
	seen := make(map[string]bool)

	for _, b := range boards {
		bd := boardDoc{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Color:       b.Color,
			CreatedAt:   b.CreatedAt,
			UpdatedAt:   b.UpdatedAt,
		}
		for _, u := range b.Members {
			bd.Members = append(bd.Members, u.ID)
			if !seen[u.ID] {
				seen[u.ID] = true
				doc.Users = append(doc.Users, u)
			}
		}
		for _, t := range b.Tasks {
			bd.Tasks = append(bd.Tasks, taskDoc{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Status:      string(t.Status),
				Priority:    string(t.Priority),
				Assignee:    t.AssigneeID(),
				DueDate:     t.DueDate,
				CreatedAt:   t.CreatedAt,
				UpdatedAt:   t.UpdatedAt,
			})
		}
		doc.Boards = append(doc.Boards, bd)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding seed: %w", err)
	}
	return enc.Close()
}

// ExportFile writes boards to path, replacing any existing file.
func ExportFile(path string, boards []model.Board) error {
	var buf bytes.Buffer
	if err := Export(&buf, boards); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
