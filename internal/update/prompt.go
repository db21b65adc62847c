package update

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/commands"
	"github.com/sandeepkv93/taskdash/internal/model"
)

func (m Model) openPrompt(kind PromptKind) Model {
	m.Prompt = kind
	m.promptInput.SetValue("")
	m.promptInput.Placeholder = string(kind)
	m.promptInput.Focus()
	return m
}

func (m Model) closePrompt() Model {
	m.Prompt = PromptNone
	m.promptInput.SetValue("")
	m.promptInput.Blur()
	return m
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "enter":
		kind, value := m.Prompt, strings.TrimSpace(m.promptInput.Value())
		m = m.closePrompt()
		if value == "" && kind != PromptSearch {
			return m, nil
		}
		return m.submitPrompt(kind, value), nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(kind PromptKind, value string) Model {
	switch kind {
	case PromptAddTask:
		cmd, err := commands.Parse("add " + value)
		if err != nil {
			return m.afterMutation("", err)
		}
		args := *cmd.Add
		if args.Due == nil && m.CurrentView == ViewCalendar {
			due := m.Calendar.Focus
			args.Due = &due
		}
		return m.addTask(args)
	case PromptSearch:
		m.Query = value
		m.setCursor(0)
		m.syncSelection()
		m.Status = StatusBar{Text: fmt.Sprintf("%d matching tasks", m.listLen())}
		return m
	case PromptCategory:
		added, err := m.store.AddCategory(m.ctx, value)
		if err == nil && !added {
			m.Status = StatusBar{Text: fmt.Sprintf("category %q already exists", value)}
			return m
		}
		return m.afterMutation(fmt.Sprintf("category %q added", value), err)
	case PromptLabel:
		name, color := splitLabel(value)
		l, err := m.store.AddLabel(m.ctx, name, color)
		return m.afterMutation(fmt.Sprintf("label %q added", l.Name), err)
	case PromptMember:
		member, err := m.store.AddTeamMember(m.ctx, parseMember(value))
		return m.afterMutation(fmt.Sprintf("%s joined the team", member.Name), err)
	}

	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "select a task first", IsError: true}
		return m
	}
	switch kind {
	case PromptSubtask:
		_, _, err := m.store.AddSubtask(m.ctx, task.ID, value)
		return m.afterMutation("subtask added", err)
	case PromptComment:
		_, _, err := m.store.AddComment(m.ctx, task.ID, value)
		return m.afterMutation("comment added", err)
	case PromptAttachment:
		_, _, err := m.store.AddAttachment(m.ctx, task.ID, value)
		return m.afterMutation("attachment added", err)
	case PromptMinutes:
		minutes, err := strconv.Atoi(value)
		if err != nil {
			m.Status = StatusBar{Text: "minutes must be a number", IsError: true}
			return m
		}
		_, err = m.store.AddTimeEntry(m.ctx, task.ID, minutes)
		return m.afterMutation(fmt.Sprintf("logged %dm on %q", minutes, task.Title), err)
	}
	return m
}

func (m Model) addTask(a commands.AddArgs) Model {
	task, err := m.store.AddTask(m.ctx, model.TaskDraft{
		Title:      a.Title,
		Priority:   a.Priority,
		DueDate:    a.Due,
		Categories: a.Categories,
	})
	if err == nil && isTaskView(m.CurrentView) {
		m.SelectedTaskID = task.ID
	}
	return m.afterMutation(fmt.Sprintf("added %q", task.Title), err)
}

// splitLabel reads "name #color"; a missing color falls back to the default.
func splitLabel(s string) (string, string) {
	fields := strings.Fields(s)
	color := model.DefaultLabelColor
	if n := len(fields); n > 1 && strings.HasPrefix(fields[n-1], "#") {
		color = fields[n-1]
		fields = fields[:n-1]
	}
	return strings.Join(fields, " "), color
}

// parseMember reads "Full Name email@host [role]".
func parseMember(s string) model.MemberDraft {
	var d model.MemberDraft
	name := make([]string, 0, 2)
	for _, f := range strings.Fields(s) {
		switch {
		case strings.Contains(f, "@"):
			d.Email = strings.Trim(f, "<>")
		case parseRole(f) != "":
			d.Role = parseRole(f)
		default:
			name = append(name, f)
		}
	}
	d.Name = strings.Join(name, " ")
	return d
}

func parseRole(s string) model.Role {
	for _, r := range []model.Role{model.RoleMember, model.RoleLead, model.RoleManager} {
		if strings.EqualFold(s, string(r)) {
			return r
		}
	}
	return ""
}
