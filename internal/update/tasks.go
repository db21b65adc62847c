package update

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/calendar"
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/kanban"
	"github.com/sandeepkv93/taskdash/internal/model"
)

const recentOnDashboard = 5

// visibleTasks lists the selectable tasks of the current view in display order.
func (m Model) visibleTasks() []model.Task {
	switch m.CurrentView {
	case ViewDashboard:
		return insights.Recent(m.store.Tasks(), recentOnDashboard)
	case ViewTasks:
		return m.store.Search(m.Query, m.Filter)
	case ViewKanban:
		cols := kanban.Columns(m.store.Tasks())
		return cols[m.kanbanCol].Tasks
	case ViewCalendar:
		return calendar.TasksOn(m.store.Tasks(), m.Calendar.Focus)
	case ViewArchive:
		return m.store.ArchivedTasks()
	default:
		return nil
	}
}

func (m Model) listLen() int {
	switch m.CurrentView {
	case ViewNotifications:
		return len(m.store.Notifications())
	case ViewTeam:
		return len(m.store.TeamMembers())
	case ViewTemplates:
		return len(m.store.Templates())
	default:
		return len(m.visibleTasks())
	}
}

// syncSelection clamps the cursor and records the task under it.
func (m *Model) syncSelection() {
	n := m.listLen()
	if c := m.cursor(); c >= n {
		m.setCursor(n - 1)
	}
	if !isTaskView(m.CurrentView) {
		return
	}
	tasks := m.visibleTasks()
	if c := m.cursor(); c < len(tasks) {
		m.SelectedTaskID = tasks[c].ID
	} else if m.CurrentView != ViewCalendar {
		m.SelectedTaskID = ""
	}
}

func isTaskView(v View) bool {
	switch v {
	case ViewDashboard, ViewTasks, ViewKanban, ViewCalendar, ViewArchive:
		return true
	default:
		return false
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.SelectedTaskID == "" {
		return model.Task{}, false
	}
	return m.store.Task(m.SelectedTaskID)
}

func (m Model) moveCursor(delta int) Model {
	n := m.listLen()
	if n == 0 {
		return m
	}
	m.setCursor(min(n-1, m.cursor()+delta))
	m.syncSelection()
	return m
}

// handleTaskKey covers the actions shared by every view that lists active tasks.
func (m Model) handleTaskKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1), nil, true
	case "down", "j":
		return m.moveCursor(1), nil, true
	case "a":
		return m.openPrompt(PromptAddTask), nil, true
	}

	task, ok := m.selectedTask()
	if !ok {
		return m, nil, false
	}
	switch msg.String() {
	case "x":
		next := model.StatusDone
		if task.Status == model.StatusDone {
			next = model.StatusTodo
		}
		_, err := kanban.Move(m.ctx, m.store, task.ID, next)
		return m.afterMutation(fmt.Sprintf("%q marked %s", task.Title, next), err), nil, true
	case "+", "=":
		return m.shiftPriority(task, -1), nil, true
	case "-":
		return m.shiftPriority(task, 1), nil, true
	case "d":
		_, err := m.store.DeleteTask(m.ctx, task.ID)
		return m.afterMutation(fmt.Sprintf("deleted %q", task.Title), err), nil, true
	case "A":
		_, err := m.store.ArchiveTask(m.ctx, task.ID)
		return m.afterMutation(fmt.Sprintf("archived %q", task.Title), err), nil, true
	case "D":
		dup, _, err := m.store.DuplicateTask(m.ctx, task.ID)
		return m.afterMutation(fmt.Sprintf("created %q", dup.Title), err), nil, true
	case "T":
		_, _, err := m.store.SaveAsTemplate(m.ctx, task.ID)
		return m.afterMutation("template saved", err), nil, true
	case "s":
		return m.openPrompt(PromptSubtask), nil, true
	case "S":
		return m.toggleNextSubtask(task), nil, true
	case "c":
		return m.openPrompt(PromptComment), nil, true
	case "u":
		return m.openPrompt(PromptAttachment), nil, true
	case "m":
		return m.openPrompt(PromptMinutes), nil, true
	case "b":
		m.Focus = m.Focus.Bind(task.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("focus bound to %q", task.Title)}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) shiftPriority(task model.Task, delta int) Model {
	i := slices.Index(model.Priorities, task.Priority)
	if i < 0 {
		i = slices.Index(model.Priorities, model.PriorityMedium)
	}
	i = max(0, min(len(model.Priorities)-1, i+delta))
	p := model.Priorities[i]
	if p == task.Priority {
		return m
	}
	_, _, err := m.store.UpdateTask(m.ctx, task.ID, model.TaskPatch{Priority: &p})
	return m.afterMutation(fmt.Sprintf("%q priority %s", task.Title, p), err)
}

// toggleNextSubtask checks off the first open subtask, or reopens the last
// one when all are done.
func (m Model) toggleNextSubtask(task model.Task) Model {
	if len(task.Subtasks) == 0 {
		m.Status = StatusBar{Text: "task has no subtasks"}
		return m
	}
	target := task.Subtasks[len(task.Subtasks)-1]
	for _, st := range task.Subtasks {
		if !st.Completed {
			target = st
			break
		}
	}
	_, err := m.store.ToggleSubtask(m.ctx, task.ID, target.ID)
	return m.afterMutation(fmt.Sprintf("subtask %q toggled", target.Title), err)
}

func (m Model) handleTasksViewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		m.Filter.Status = cycle(statusFilters(), m.Filter.Status)
		m.setCursor(0)
		m.syncSelection()
		return m, nil
	case "F":
		m.Filter.Priority = cycle(priorityFilters(), m.Filter.Priority)
		m.setCursor(0)
		m.syncSelection()
		return m, nil
	case "g":
		return m.openPrompt(PromptSearch), nil
	case "G":
		m.Filter = insights.Filters{}
		m.Query = ""
		m.Status = StatusBar{Text: "filters cleared"}
		m.syncSelection()
		return m, nil
	}
	next, cmd, _ := m.handleTaskKey(msg)
	return next, cmd
}

func (m Model) handleKanbanKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.kanbanCol = max(0, m.kanbanCol-1)
		m.setCursor(0)
		m.syncSelection()
		return m, nil
	case "l", "right":
		m.kanbanCol = min(len(model.Statuses)-1, m.kanbanCol+1)
		m.setCursor(0)
		m.syncSelection()
		return m, nil
	case "H", "L":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		delta := 1
		if msg.String() == "H" {
			delta = -1
		}
		to := kanban.Shift(task.Status, delta)
		moved, err := kanban.Move(m.ctx, m.store, task.ID, to)
		if moved {
			m.kanbanCol = slices.Index(model.Statuses, to)
			m.setCursor(slices.IndexFunc(m.visibleTasks(), func(t model.Task) bool { return t.ID == task.ID }))
		}
		return m.afterMutation(fmt.Sprintf("%q moved to %s", task.Title, to), err), nil
	}
	next, cmd, _ := m.handleTaskKey(msg)
	return next, cmd
}

func (m Model) handleArchiveKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	}
	archived := m.visibleTasks()
	if m.cursor() >= len(archived) {
		return m, nil
	}
	task := archived[m.cursor()]
	switch msg.String() {
	case "r":
		_, err := m.store.RestoreTask(m.ctx, task.ID)
		return m.afterMutation(fmt.Sprintf("restored %q", task.Title), err), nil
	case "d":
		_, err := m.store.DeleteTask(m.ctx, task.ID)
		return m.afterMutation(fmt.Sprintf("deleted %q", task.Title), err), nil
	}
	return m, nil
}

func statusFilters() []string {
	out := []string{insights.All}
	for _, s := range model.Statuses {
		out = append(out, string(s))
	}
	return out
}

func priorityFilters() []string {
	out := []string{insights.All}
	for _, p := range model.Priorities {
		out = append(out, string(p))
	}
	return out
}

// afterMutation reports the outcome of a store call. A persistence error
// still leaves the change applied in memory.
func (m Model) afterMutation(ok string, err error) Model {
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Warn("dashboard action failed", zap.Error(err))
	} else {
		m.Status = StatusBar{Text: ok}
	}
	m.syncSelection()
	return m
}
