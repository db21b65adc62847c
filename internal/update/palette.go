package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/commands"
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/kanban"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/transfer"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) resolveTarget(t commands.Target, archived bool) (model.Task, error) {
	if t.Selected {
		if archived && m.CurrentView == ViewArchive {
			tasks := m.visibleTasks()
			if m.cursor() < len(tasks) {
				return tasks[m.cursor()], nil
			}
		} else if task, ok := m.selectedTask(); ok {
			return task, nil
		}
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task selected"}
	}
	set := m.store.Tasks()
	if archived {
		set = m.store.ArchivedTasks()
	}
	for _, task := range set {
		if task.ID == t.ID {
			return task, nil
		}
	}
	return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task %s not found", t.ID)}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.store.AddTask(m.ctx, model.TaskDraft{Title: a.Title, Priority: a.Priority, DueDate: a.Due, Categories: a.Categories})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q", task.Title)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target, false)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := kanban.Move(m.ctx, m.store, task.ID, a.Status); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%q moved to %s", task.Title, a.Status)}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.CurrentView = ViewTasks
			m.Query = a.Query
			m.Filter = insights.Filters{Status: a.Status, Priority: a.Priority, Category: a.Category}
			m.setCursor(0)
			return commands.Result{Message: fmt.Sprintf("%d matching tasks", len(m.store.Search(m.Query, m.Filter)))}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			v, ok := ParseView(a.View)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "unknown view " + a.View}
			}
			m.CurrentView = v
			return commands.Result{Message: "switched to " + string(v)}, nil
		},
		Archive: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target, false)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.ArchiveTask(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("archived %q", task.Title)}, nil
		},
		Restore: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target, true)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.RestoreTask(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("restored %q", task.Title)}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTarget(a.Target, m.CurrentView == ViewArchive)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.store.DeleteTask(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", task.Title)}, nil
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			f, err := transfer.ParseFormat(a.Format)
			if err != nil {
				return commands.Result{}, err
			}
			path, err := transfer.Export(m.fs, m.exportDir, m.store.UserKey(), f, m.store.Tasks(), m.now())
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "exported to " + path}, nil
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			if !transfer.Supported(a.Path) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "import expects a .json or .csv file"}
			}
			res, err := m.importer.ImportFile(m.ctx, a.Path)
			msg := transfer.Message(res, err)
			if err != nil || res.Imported == 0 {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: msg}
			}
			return commands.Result{Message: msg}, nil
		},
		Focus: func(a commands.FocusArgs) (commands.Result, error) {
			m.CurrentView = ViewFocus
			switch a.Action {
			case "start":
				if !m.Focus.Running {
					m, next = m.toggleFocus()
				}
			case "pause":
				m.Focus = m.Focus.Pause()
			case "reset":
				m.Focus = m.Focus.Reset()
			case "skip":
				m.Focus = m.Focus.Skip()
			}
			return commands.Result{Message: fmt.Sprintf("focus %s (%s %s)", a.Action, m.Focus.Mode, m.Focus.Clock())}, nil
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.syncSelection()
	return m, next
}
