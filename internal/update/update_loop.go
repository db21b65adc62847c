package update

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskdash/internal/store"
	"github.com/sandeepkv93/taskdash/internal/views"
)

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange turns the next store change into a message. A nil or closed
// channel ends the chain.
func waitForChange(ch <-chan store.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChangedMsg{Change: c}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Prompt != PromptNone {
			return m.handlePromptKey(typed)
		}
		if next, cmd, ok := m.handleGlobalKey(typed); ok {
			return next, cmd
		}
		return m.handleViewKey(typed)
	case StoreChangedMsg:
		m.syncSelection()
		return m, waitForChange(m.changes)
	case FocusTickMsg:
		return m.onFocusTick(typed)
	case SwitchViewMsg:
		if slices.Contains(ViewOrder, typed.View) {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case m.Keys.Palette:
		m = m.openPalette()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil, true
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil, true
	case m.Keys.Next:
		return m.switchView(m.relativeView(1)), nil, true
	case m.Keys.Prev:
		return m.switchView(m.relativeView(-1)), nil, true
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit, true
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		i := int(key[0]-'0') - 1
		if key == "0" {
			i = 9
		}
		return m.switchView(ViewOrder[i]), nil, true
	}
	return m, nil, false
}

func (m Model) relativeView(delta int) View {
	i := slices.Index(ViewOrder, m.CurrentView)
	n := len(ViewOrder)
	return ViewOrder[((i+delta)%n+n)%n]
}

func (m Model) switchView(v View) Model {
	m.CurrentView = v
	m.confirmClear = false
	m.syncSelection()
	return m
}

func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksViewKey(msg)
	case ViewKanban:
		return m.handleKanbanKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewFocus:
		return m.handleFocusKey(msg)
	case ViewArchive:
		return m.handleArchiveKey(msg)
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	case ViewTeam:
		return m.handleTeamKey(msg)
	case ViewTemplates:
		return m.handleTemplatesKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewDashboard:
		next, cmd, _ := m.handleTaskKey(msg)
		return next, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	tabs := make([]string, len(ViewOrder))
	for i, v := range ViewOrder {
		tabs[i] = fmt.Sprintf("%d %s", (i+1)%10, v)
		if i >= 10 {
			tabs[i] = string(v)
		}
	}

	right := m.renderDetailPane()
	if m.HelpVisible {
		right = m.renderHelpView()
	}
	left := m.renderLeftPane()
	if p := views.RenderPrompt(string(m.Prompt), m.promptInput.View()); p != "" {
		left += "\n\n" + p
	}
	if p := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()); p != "" {
		left += "\n\n" + p
	}

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskdash · %s", m.store.UserKey()),
		Tabs:          tabs,
		ActiveTab:     slices.Index(ViewOrder, m.CurrentView),
		Unread:        m.store.UnreadCount(),
		LeftPane:      left,
		RightPane:     right,
		StatusLine:    m.Status.Text,
		StatusIsError: m.Status.IsError,
		Notification:  m.latestUnread(),
		Footer:        fmt.Sprintf("%s/%s views · 1-9,0 jump · %s command · %s help · %s quit", m.Keys.Next, m.Keys.Prev, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}
