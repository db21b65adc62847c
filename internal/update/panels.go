package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskdash/internal/calendar"
	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/kanban"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/views"
)

const (
	titleWidth   = 40
	historyShown = 50
)

func (m Model) taskRow(t model.Task, selected bool) views.TaskRow {
	row := views.TaskRow{
		ID:         t.ID,
		Title:      truncate(t.Title, titleWidth),
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		Overdue:    t.IsOverdue(m.now()),
		Done:       t.Status == model.StatusDone,
		Categories: t.Categories,
		Selected:   selected,
	}
	if t.DueDate != nil {
		row.Due = t.DueDate.String()
	}
	if n := len(t.Subtasks); n > 0 {
		done := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				done++
			}
		}
		row.Subtasks = fmt.Sprintf("%d/%d", done, n)
	}
	return row
}

func (m Model) taskRows(tasks []model.Task, withCursor bool) []views.TaskRow {
	rows := make([]views.TaskRow, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, m.taskRow(t, withCursor && i == m.cursor()))
	}
	return rows
}

func (m Model) dashboardData() views.DashboardData {
	stats := m.store.Stats()
	prod := m.store.Productivity()
	goal := m.focusGoal()
	return views.DashboardData{
		Total:          stats.Total,
		Completed:      stats.Completed,
		InProgress:     stats.InProgress,
		Todo:           stats.Todo,
		Overdue:        stats.Overdue,
		HighPriority:   stats.HighPriority,
		CompletionRate: stats.CompletionRate(),
		GoalDone:       prod.CompletedToday,
		Goal:           goal,
		GoalView:       m.focusProgress.ViewAs(float64(insights.GoalProgress(prod.CompletedToday, goal)) / 100),
		Recent:         m.taskRows(m.visibleTasks(), m.CurrentView == ViewDashboard),
	}
}

func (m Model) focusGoal() int {
	if m.dailyGoal <= 0 {
		return defaultDailyGoal
	}
	return m.dailyGoal
}

func (m Model) renderTasksPane() string {
	filter := fmt.Sprintf("status=%s priority=%s", orAll(m.Filter.Status), orAll(m.Filter.Priority))
	if m.Filter.Category != "" {
		filter += " category=" + m.Filter.Category
	}
	return views.RenderTaskList(views.TaskListData{
		Title:   "tasks",
		Filter:  filter,
		Query:   m.Query,
		Rows:    m.taskRows(m.visibleTasks(), true),
		Empty:   "no tasks match",
		Actions: "[a]dd [x]done [+/-]priority [f/F]filter [g]search [G]clear [A]rchive [d]elete",
	})
}

func orAll(s string) string {
	if s == "" {
		return insights.All
	}
	return s
}

func (m Model) renderKanbanPane() string {
	cols := kanban.Columns(m.store.Tasks())
	out := make([]views.KanbanColumnData, 0, len(cols))
	for i, c := range cols {
		active := i == m.kanbanCol
		out = append(out, views.KanbanColumnData{
			Title:  fmt.Sprintf("%s (%d)", c.Status, len(c.Tasks)),
			Cards:  m.taskRows(c.Tasks, active),
			Active: active,
		})
	}
	return views.RenderKanban(out)
}

func (m Model) renderCalendarPane() string {
	weeks := m.calendarWeeks()
	data := views.CalendarData{
		Title:    m.Calendar.Title(),
		Mode:     string(m.Calendar.Mode),
		Focused:  m.Calendar.Focus.String(),
		DayTasks: m.taskRows(m.visibleTasks(), true),
		Weeks:    make([][]views.DayCell, 0, len(weeks)),
	}
	for _, week := range weeks {
		row := make([]views.DayCell, 0, len(week))
		for _, c := range week {
			row = append(row, dayCell(c, m.Calendar.Focus))
		}
		data.Weeks = append(data.Weeks, row)
	}
	return views.RenderCalendar(data)
}

func dayCell(c calendar.Cell, focused model.Date) views.DayCell {
	if c.Blank {
		return views.DayCell{Blank: true}
	}
	return views.DayCell{
		Label:   strconv.Itoa(c.Date.In(time.UTC).Day()),
		Count:   len(c.Tasks),
		Overdue: c.Overdue,
		Today:   c.Today,
		Focused: c.Date == focused,
	}
}

func (m Model) renderStatsPane() string {
	tasks := m.store.Tasks()
	prio := insights.Priorities(tasks)
	prod := m.store.Productivity()
	data := views.StatsData{
		Dashboard: m.dashboardData(),
		Priorities: []views.CountRow{
			{Name: string(model.PriorityHigh), Count: prio.High},
			{Name: string(model.PriorityMedium), Count: prio.Medium},
			{Name: string(model.PriorityLow), Count: prio.Low},
		},
		CompletedToday:    prod.CompletedToday,
		CompletedThisWeek: prod.CompletedThisWeek,
		TotalTimeSpent:    prod.TotalTimeSpent,
		AvgTimePerTask:    prod.AvgTimePerTask,
	}
	for _, c := range insights.Categories(tasks) {
		data.Categories = append(data.Categories, views.CountRow{Name: c.Name, Count: c.Count})
	}
	return views.RenderStats(data)
}

func (m Model) renderFocusPane() string {
	data := views.FocusData{
		Mode:         string(m.Focus.Mode),
		Clock:        m.Focus.Clock(),
		Running:      m.Focus.Running,
		ProgressView: m.focusProgress.ViewAs(m.focusFraction()),
		Completed:    m.Focus.Completed,
	}
	if m.Focus.TaskID != "" {
		if t, ok := m.store.Task(m.Focus.TaskID); ok {
			data.TaskTitle = t.Title
		}
	}
	return views.RenderFocusPanel(data)
}

func (m Model) renderHistoryPane() string {
	rows := make([]views.NamedRow, 0, historyShown)
	for i, h := range m.store.History() {
		if i == historyShown {
			break
		}
		rows = append(rows, views.NamedRow{Name: describeHistory(h), Detail: h.Timestamp.Format("Jan 2 15:04")})
	}
	return views.RenderNamedList("history", "", rows, "no activity yet")
}

func describeHistory(h model.HistoryEntry) string {
	if h.Bulk != nil {
		return fmt.Sprintf("%s %d tasks", h.Action, h.Bulk.Count)
	}
	title := "(unknown task)"
	if h.Task != nil {
		title = fmt.Sprintf("%q", h.Task.Title)
	}
	if len(h.Fields) > 0 {
		return fmt.Sprintf("%s %s [%s]", h.Action, title, strings.Join(h.Fields, ", "))
	}
	return fmt.Sprintf("%s %s", h.Action, title)
}

func (m Model) renderArchivePane() string {
	return views.RenderTaskList(views.TaskListData{
		Title:   "archive",
		Rows:    m.taskRows(m.visibleTasks(), true),
		Empty:   "archive is empty",
		Actions: "[r]estore [d]elete",
	})
}

func (m Model) renderNotificationsPane() string {
	notes := m.store.Notifications()
	rows := make([]views.NotificationRow, 0, len(notes))
	for i, n := range notes {
		rows = append(rows, views.NotificationRow{
			When:     n.Timestamp.Format("Jan 2 15:04"),
			Type:     string(n.Type),
			Message:  n.Message,
			Read:     n.Read,
			Selected: i == m.cursor(),
		})
	}
	return views.RenderNotifications(rows)
}

func (m Model) renderTeamPane() string {
	team := m.store.TeamMembers()
	rows := make([]views.NamedRow, 0, len(team))
	for i, t := range team {
		rows = append(rows, views.NamedRow{Name: t.Name, Detail: fmt.Sprintf("%s · %s", t.Email, t.Role), Selected: i == m.cursor()})
	}
	return views.RenderNamedList("team", "[a]dd [d]remove", rows, "no team members")
}

func (m Model) renderTemplatesPane() string {
	templates := m.store.Templates()
	rows := make([]views.NamedRow, 0, len(templates))
	for i, t := range templates {
		rows = append(rows, views.NamedRow{Name: t.Name, Detail: string(t.Task.Priority), Selected: i == m.cursor()})
	}
	return views.RenderNamedList("templates", "[enter]create task [d]elete", rows, "no templates; press T on a task to save one")
}

func (m Model) renderSettingsPane() string {
	labels := m.store.Labels()
	rows := make([]views.NamedRow, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, views.NamedRow{Name: l.Name, Detail: l.Color})
	}
	return views.RenderSettings(views.SettingsData{
		UserKey:    m.store.UserKey(),
		Backend:    m.backend,
		Categories: m.store.Categories(),
		Labels:     rows,
		DailyGoal:  m.focusGoal(),
	})
}

// renderDetailPane shows the task under the cursor.
func (m Model) renderDetailPane() string {
	var (
		task model.Task
		ok   bool
	)
	if m.CurrentView == ViewArchive {
		if tasks := m.visibleTasks(); m.cursor() < len(tasks) {
			task, ok = tasks[m.cursor()], true
		}
	} else if isTaskView(m.CurrentView) {
		task, ok = m.selectedTask()
	}
	if !ok {
		return ""
	}
	data := views.TaskDetailData{
		Title:       task.Title,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Categories:  task.Categories,
		Assignees:   task.AssignedTo,
		TimeSpent:   task.TimeSpent,
		Description: task.Description,
	}
	if task.DueDate != nil {
		data.Due = task.DueDate.String()
	}
	if task.EstimatedTime != nil {
		data.Estimated = fmt.Sprintf("%dm", *task.EstimatedTime)
	}
	for _, id := range task.Labels {
		if l, ok := m.store.Label(id); ok {
			data.Labels = append(data.Labels, l.Name)
		}
	}
	for _, st := range task.Subtasks {
		data.Subtasks = append(data.Subtasks, views.SubtaskRow{Title: st.Title, Completed: st.Completed})
	}
	for _, c := range task.Comments {
		data.Comments = append(data.Comments, c.Timestamp.Format("Jan 2 15:04")+" "+c.Text)
	}
	for _, a := range task.Attachments {
		data.Attachments = append(data.Attachments, a.Name)
	}
	return views.RenderTaskDetail(data)
}

func (m Model) renderLeftPane() string {
	switch m.CurrentView {
	case ViewDashboard:
		return views.RenderDashboard(m.dashboardData())
	case ViewTasks:
		return m.renderTasksPane()
	case ViewKanban:
		return m.renderKanbanPane()
	case ViewCalendar:
		return m.renderCalendarPane()
	case ViewStats:
		return m.renderStatsPane()
	case ViewFocus:
		return m.renderFocusPane()
	case ViewHistory:
		return m.renderHistoryPane()
	case ViewArchive:
		return m.renderArchivePane()
	case ViewNotifications:
		return m.renderNotificationsPane()
	case ViewTeam:
		return m.renderTeamPane()
	case ViewTemplates:
		return m.renderTemplatesPane()
	case ViewSettings:
		return m.renderSettingsPane()
	}
	return ""
}

// latestUnread surfaces the newest unread notification under the panes.
func (m Model) latestUnread() string {
	for _, n := range m.store.Notifications() {
		if !n.Read {
			return views.RenderNotification(string(n.Type), n.Message)
		}
	}
	return ""
}
