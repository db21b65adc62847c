package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/transfer"
)

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	case "c":
		return m.afterMutation("notifications cleared", m.store.ClearNotifications(m.ctx)), nil
	case "enter":
		notes := m.store.Notifications()
		if m.cursor() < len(notes) {
			_, err := m.store.MarkNotificationRead(m.ctx, notes[m.cursor()].ID)
			return m.afterMutation("marked as read", err), nil
		}
	}
	return m, nil
}

func (m Model) handleTeamKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	case "a":
		return m.openPrompt(PromptMember), nil
	case "d":
		team := m.store.TeamMembers()
		if m.cursor() < len(team) {
			member := team[m.cursor()]
			_, err := m.store.RemoveTeamMember(m.ctx, member.ID)
			return m.afterMutation(fmt.Sprintf("removed %s", member.Name), err), nil
		}
	}
	return m, nil
}

func (m Model) handleTemplatesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	templates := m.store.Templates()
	switch msg.String() {
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	case "enter":
		if m.cursor() < len(templates) {
			task, _, err := m.store.CreateFromTemplate(m.ctx, templates[m.cursor()].ID)
			return m.afterMutation(fmt.Sprintf("created %q from template", task.Title), err), nil
		}
	case "d":
		if m.cursor() < len(templates) {
			_, err := m.store.DeleteTemplate(m.ctx, templates[m.cursor()].ID)
			return m.afterMutation("template deleted", err), nil
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key != "X" {
		m.confirmClear = false
	}
	switch key {
	case "c":
		return m.openPrompt(PromptCategory), nil
	case "l":
		return m.openPrompt(PromptLabel), nil
	case "B":
		path, err := transfer.WriteBackup(m.fs, m.exportDir, m.store.UserKey(), m.store.Snapshot(), m.now())
		return m.afterMutation("backup written to "+path, err), nil
	case "X":
		if !m.confirmClear {
			m.confirmClear = true
			m.Status = StatusBar{Text: "press X again to delete all tasks, history and notifications", IsError: true}
			return m, nil
		}
		m.confirmClear = false
		return m.afterMutation("all data cleared", m.store.ClearAllData(m.ctx)), nil
	}
	return m, nil
}
