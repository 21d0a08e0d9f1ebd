package seed

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/model"
)

const sampleDoc = `
users:
  - id: u1
    name: Ada Lovelace
    email: ada@example.com
    color: "#0073ea"
  - id: u2
    name: Alan Turing
    email: alan@example.com
    color: "#00c875"
boards:
  - id: b1
    name: Research
    members: [u1, u2]
    tasks:
      - id: t1
        title: Analytical engine notes
        status: progress
        priority: high
        assignee: u1
        due_date: "2024-03-01"
      - id: t2
        title: Unassigned chore
`

func TestParse(t *testing.T) {
	boards, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, boards, 1)

	b := boards[0]
	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "Research", b.Name)
	require.Len(t, b.Members, 2)
	require.Len(t, b.Tasks, 2)

	t1 := b.Tasks[0]
	assert.Equal(t, model.StatusProgress, t1.Status)
	assert.Equal(t, model.PriorityHigh, t1.Priority)
	assert.Equal(t, "u1", t1.AssigneeID())
	assert.Equal(t, "b1", t1.BoardID)

	t2 := b.Tasks[1]
	assert.Equal(t, model.StatusTodo, t2.Status, "status defaults to todo")
	assert.Equal(t, model.PriorityMedium, t2.Priority, "priority defaults to medium")
	assert.Nil(t, t2.Assignee)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown status", `
boards:
  - id: b1
    tasks:
      - {id: t1, title: x, status: blocked}`},
		{"unknown priority", `
boards:
  - id: b1
    tasks:
      - {id: t1, title: x, priority: urgent}`},
		{"duplicate task", `
boards:
  - id: b1
    tasks:
      - {id: t1, title: x}
      - {id: t1, title: y}`},
		{"duplicate board", `
boards:
  - {id: b1}
  - {id: b1}`},
		{"duplicate user", `
users:
  - {id: u1, name: A}
  - {id: u1, name: B}`},
		{"unknown member", `
boards:
  - {id: b1, members: [ghost]}`},
		{"assignee not a member", `
users:
  - {id: u1, name: A}
boards:
  - id: b1
    tasks:
      - {id: t1, title: x, assignee: u1}`},
		{"bad due date", `
boards:
  - id: b1
    tasks:
      - {id: t1, title: x, due_date: 01/02/2024}`},
		{"task without id", `
boards:
  - id: b1
    tasks:
      - {title: x}`},
		{"task with blank title", `
boards:
  - id: b1
    tasks:
      - {id: t1, title: "  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("boards:\n  - id: b1\n    colour: red\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestExportRoundTrip(t *testing.T) {
	want := []model.Board{Demo()}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, want))

	got, err := Parse(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportFileAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	require.NoError(t, ExportFile(path, []model.Board{Demo()}))

	boards, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Len(t, boards[0].Tasks, 6)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	b := Demo()
	assert.Equal(t, DemoBoardID, b.ID)
	assert.Len(t, b.Members, 4)
	require.Len(t, b.Tasks, 6)

	counts := map[model.Status]int{}
	for _, task := range b.Tasks {
		counts[task.Status]++
		_, ok := b.Member(task.AssigneeID())
		assert.True(t, ok, "assignee of %s must be a member", task.ID)
	}
	assert.Equal(t, map[model.Status]int{
		model.StatusTodo:     2,
		model.StatusProgress: 2,
		model.StatusDone:     1,
		model.StatusStuck:    1,
	}, counts)

	b.Tasks[0].Assignee.Name = "changed"
	assert.Equal(t, "John Doe", Demo().Tasks[0].Assignee.Name, "Demo returns independent copies")
}
