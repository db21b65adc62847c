package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRow struct {
	ID         string
	Title      string
	Status     string
	Priority   string
	Due        string
	Overdue    bool
	Done       bool
	Categories []string
	Subtasks   string
	Selected   bool
}

type TaskListData struct {
	Title   string
	Filter  string
	Query   string
	Rows    []TaskRow
	Empty   string
	Actions string
}

type DashboardData struct {
	Total          int
	Completed      int
	InProgress     int
	Todo           int
	Overdue        int
	HighPriority   int
	CompletionRate int
	GoalDone       int
	Goal           int
	GoalView       string
	Recent         []TaskRow
}

type KanbanColumnData struct {
	Title  string
	Cards  []TaskRow
	Active bool
}

type DayCell struct {
	Label   string
	Count   int
	Overdue int
	Today   bool
	Focused bool
	Blank   bool
}

type CalendarData struct {
	Title    string
	Mode     string
	Weeks    [][]DayCell
	Focused  string
	DayTasks []TaskRow
}

type CountRow struct {
	Name  string
	Count int
}

type StatsData struct {
	Dashboard         DashboardData
	Priorities        []CountRow
	Categories        []CountRow
	CompletedToday    int
	CompletedThisWeek int
	TotalTimeSpent    int
	AvgTimePerTask    float64
}

type FocusData struct {
	Mode         string
	Clock        string
	Running      bool
	ProgressView string
	Completed    int
	TaskTitle    string
}

type SubtaskRow struct {
	Title     string
	Completed bool
}

type TaskDetailData struct {
	Title       string
	Status      string
	Priority    string
	Due         string
	Categories  []string
	Labels      []string
	Assignees   []string
	Subtasks    []SubtaskRow
	Comments    []string
	Attachments []string
	TimeSpent   int
	Estimated   string
	Description string
}

type NotificationRow struct {
	When     string
	Type     string
	Message  string
	Read     bool
	Selected bool
}

type NamedRow struct {
	Name     string
	Detail   string
	Selected bool
}

type SettingsData struct {
	UserKey    string
	Backend    string
	Categories []string
	Labels     []NamedRow
	DailyGoal  int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	if data.Filter != "" || data.Query != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %s  query: %q", data.Filter, data.Query)) + "\n")
	}
	if data.Actions != "" {
		b.WriteString(mutedStyle.Render("actions: "+data.Actions) + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString(data.Empty)
		return strings.TrimSpace(b.String())
	}
	for _, r := range data.Rows {
		b.WriteString(renderTaskRow(r) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderTaskRow(r TaskRow) string {
	cursor := " "
	if r.Selected {
		cursor = cursorStyle.Render(">")
	}
	title := r.Title
	switch {
	case r.Done:
		title = doneStyle.Render(title)
	case r.Overdue:
		title = overdueStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", cursor, priorityBadge(r.Priority), title)
	if r.Status != "" {
		line += mutedStyle.Render(" [" + r.Status + "]")
	}
	if r.Due != "" {
		line += " due:" + r.Due
	}
	if r.Subtasks != "" {
		line += " " + r.Subtasks
	}
	if len(r.Categories) > 0 {
		line += mutedStyle.Render(" #" + strings.Join(r.Categories, " #"))
	}
	return line
}

func priorityBadge(p string) string {
	switch p {
	case "High":
		return "[RED]"
	case "Low":
		return "[GREEN]"
	default:
		return "[YELLOW]"
	}
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	b.WriteString("dashboard:\n")
	b.WriteString(fmt.Sprintf("total: %d  done: %d  in progress: %d  to do: %d\n", data.Total, data.Completed, data.InProgress, data.Todo))
	b.WriteString(fmt.Sprintf("overdue: %d  high priority: %d  completion: %d%%\n", data.Overdue, data.HighPriority, data.CompletionRate))
	b.WriteString(fmt.Sprintf("daily goal: %d/%d %s\n", data.GoalDone, data.Goal, data.GoalView))
	b.WriteString("\nrecent:\n")
	if len(data.Recent) == 0 {
		b.WriteString("  (no tasks yet, press [a] to add one)")
	}
	for _, r := range data.Recent {
		b.WriteString(renderTaskRow(r) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderKanban(cols []KanbanColumnData) string {
	rendered := make([]string, len(cols))
	for i, c := range cols {
		var b strings.Builder
		head := fmt.Sprintf("%s (%d)", c.Title, len(c.Cards))
		if c.Active {
			head = cursorStyle.Render(head)
		}
		b.WriteString(head + "\n")
		for _, card := range c.Cards {
			b.WriteString(renderTaskRow(card) + "\n")
		}
		if len(c.Cards) == 0 {
			b.WriteString(mutedStyle.Render("(empty)"))
		}
		rendered[i] = panelStyle.Width(22).Render(strings.TrimSpace(b.String()))
	}
	return "kanban:\n" + mutedStyle.Render("actions: [h/l]column [j/k]card [H/L]move card") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func RenderCalendar(data CalendarData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s (%s)\n", data.Title, data.Mode))
	b.WriteString(mutedStyle.Render("actions: [h/l]day [j/k]week [</>]period [m]mode [t]today") + "\n")
	b.WriteString(" Sun  Mon  Tue  Wed  Thu  Fri  Sat\n")
	for _, week := range data.Weeks {
		for _, c := range week {
			b.WriteString(renderDayCell(c))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n%s:\n", data.Focused))
	if len(data.DayTasks) == 0 {
		b.WriteString("  (nothing due)")
	}
	for _, r := range data.DayTasks {
		b.WriteString(renderTaskRow(r) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderDayCell(c DayCell) string {
	if c.Blank {
		return "     "
	}
	label := fmt.Sprintf("%3s", c.Label)
	mark := " "
	switch {
	case c.Overdue > 0:
		mark = "!"
	case c.Count > 0:
		mark = "*"
	}
	cell := label + mark + " "
	switch {
	case c.Focused:
		return cursorStyle.Render(cell)
	case c.Today:
		return headerStyle.Render(cell)
	case c.Overdue > 0:
		return overdueStyle.Render(cell)
	}
	return cell
}

func RenderStats(data StatsData) string {
	var b strings.Builder
	b.WriteString(RenderDashboard(data.Dashboard))
	b.WriteString("\n\nby priority:\n")
	for _, r := range data.Priorities {
		b.WriteString(fmt.Sprintf("  %-8s %d\n", r.Name, r.Count))
	}
	b.WriteString("by category:\n")
	if len(data.Categories) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range data.Categories {
		b.WriteString(fmt.Sprintf("  %-12s %d\n", r.Name, r.Count))
	}
	b.WriteString(fmt.Sprintf("productivity: today %d  this week %d  time %dm  avg %.1fm/task",
		data.CompletedToday, data.CompletedThisWeek, data.TotalTimeSpent, data.AvgTimePerTask))
	return b.String()
}

func RenderFocusPanel(data FocusData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none, press [b] on a selected task)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("mode: %s (%s)\n", data.Mode, state))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Clock))
	b.WriteString(data.ProgressView + "\n")
	b.WriteString(fmt.Sprintf("sessions completed: %d\n", data.Completed))
	b.WriteString(mutedStyle.Render("actions: [space]start/pause [r]reset [n]skip [b]bind selected task"))
	return b.String()
}

func RenderTaskDetail(data TaskDetailData) string {
	if data.Title == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("status: %s  priority: %s\n", data.Status, data.Priority))
	if data.Due != "" {
		b.WriteString("due: " + data.Due + "\n")
	}
	writeList(&b, "categories", data.Categories)
	writeList(&b, "labels", data.Labels)
	writeList(&b, "assigned", data.Assignees)
	b.WriteString(fmt.Sprintf("time: %dm", data.TimeSpent))
	if data.Estimated != "" {
		b.WriteString(" / est " + data.Estimated)
	}
	b.WriteString("\n")
	if len(data.Subtasks) > 0 {
		b.WriteString("subtasks:\n")
		for _, s := range data.Subtasks {
			box := "[ ]"
			if s.Completed {
				box = "[x]"
			}
			b.WriteString("  " + box + " " + s.Title + "\n")
		}
	}
	if len(data.Comments) > 0 {
		b.WriteString("comments:\n")
		for _, c := range data.Comments {
			b.WriteString("  - " + c + "\n")
		}
	}
	writeList(&b, "attachments", data.Attachments)
	if md := RenderMarkdown(data.Description); md != "" {
		b.WriteString("\n" + md)
	}
	return strings.TrimSpace(b.String())
}

func writeList(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(name + ": " + strings.Join(items, ", ") + "\n")
}

func RenderNotifications(rows []NotificationRow) string {
	var b strings.Builder
	b.WriteString("notifications:\n")
	b.WriteString(mutedStyle.Render("actions: [enter]mark read [c]clear all") + "\n")
	if len(rows) == 0 {
		b.WriteString("(no notifications)")
	}
	for _, r := range rows {
		cursor := " "
		if r.Selected {
			cursor = cursorStyle.Render(">")
		}
		dot := "*"
		if r.Read {
			dot = " "
		}
		b.WriteString(fmt.Sprintf("%s%s %s [%s] %s\n", cursor, dot, r.When, strings.ToUpper(r.Type), r.Message))
	}
	return strings.TrimSpace(b.String())
}

// RenderNamedList renders a titled, selectable list of rows.
func RenderNamedList(title, actions string, rows []NamedRow, empty string) string {
	var b strings.Builder
	b.WriteString(title + ":\n")
	if actions != "" {
		b.WriteString(mutedStyle.Render("actions: "+actions) + "\n")
	}
	if len(rows) == 0 {
		b.WriteString(empty)
	}
	for _, r := range rows {
		cursor := " "
		if r.Selected {
			cursor = cursorStyle.Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", cursor, r.Name, mutedStyle.Render(r.Detail)))
	}
	return strings.TrimSpace(b.String())
}

func RenderSettings(data SettingsData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString(mutedStyle.Render("actions: [c]add category [l]add label [B]backup [X]clear all data") + "\n")
	b.WriteString(fmt.Sprintf("user: %s\nstorage: %s\ndaily goal: %d\n", data.UserKey, data.Backend, data.DailyGoal))
	b.WriteString("categories: " + strings.Join(data.Categories, ", ") + "\n")
	b.WriteString("labels:\n")
	for _, l := range data.Labels {
		b.WriteString(fmt.Sprintf("  %s %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color(l.Detail)).Render("●"), l.Name))
	}
	return strings.TrimSpace(b.String())
}

func RenderPrompt(label, inputView string) string {
	if label == "" {
		return ""
	}
	return label + ": " + inputView
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
