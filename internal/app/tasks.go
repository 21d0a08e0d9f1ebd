package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/workboard/internal/board"
	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/seed"
	"github.com/nhle/workboard/internal/settings"
	"github.com/nhle/workboard/internal/ui/boardview"
)

// exportDoneMsg is sent after boards were written to disk.
type exportDoneMsg struct {
	path string
	err  error
}

// themeSavedMsg is sent after the theme command persisted a theme.
type themeSavedMsg struct {
	theme model.Theme
	err   error
}

// createTask adds a task to the active board.
func (m *Model) createTask(in model.NewTask) tea.Cmd {
	s := m.active
	logger := m.log
	return func() tea.Msg {
		t, err := s.AddTask(in)
		if err != nil {
			logger.WithFields(log.Fields{"board": s.ID(), "error": err}).Warn("creating task")
			return boardview.TaskMutatedMsg{Err: err}
		}
		return boardview.TaskMutatedMsg{Action: "Task created", TaskID: t.ID}
	}
}

// updateTask applies an edit from the task form.
func (m *Model) updateTask(id string, u model.TaskUpdate) tea.Cmd {
	s := m.active
	logger := m.log
	return func() tea.Msg {
		if err := s.UpdateTask(id, u); err != nil {
			logger.WithFields(log.Fields{"board": s.ID(), "task": id, "error": err}).Warn("updating task")
			return boardview.TaskMutatedMsg{Err: err}
		}
		return boardview.TaskMutatedMsg{Action: "Task updated", TaskID: id}
	}
}

// exportBoards writes every board in the workspace to path as YAML.
func exportBoards(ws *board.Workspace, path string, logger log.FieldLogger) tea.Cmd {
	return func() tea.Msg {
		err := seed.ExportFile(path, ws.Boards())
		fields := log.Fields{"path": path, "boards": ws.Len()}
		if err != nil {
			fields["error"] = err
			logger.WithFields(fields).Error("export failed")
		} else {
			logger.WithFields(fields).Info("boards exported")
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// saveTheme persists the theme chosen from the command palette.
func saveTheme(svc *settings.Service, t model.Theme) tea.Cmd {
	return func() tea.Msg {
		err := svc.SetTheme(context.Background(), t)
		return themeSavedMsg{theme: t, err: err}
	}
}
