package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/taskdash/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	global := toKeyBindings(m.globalBindings())
	local := toKeyBindings(m.viewBindings())
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	m.helpModel.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView:    m.helpModel.View(helpKeyMap{short: global, full: [][]key.Binding{global}}),
	}) + "\n" + m.helpModel.ShortHelpView(local)
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Next, Action: "next view"},
		{Key: m.Keys.Prev, Action: "previous view"},
		{Key: "1-9,0", Action: "jump to view"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

var taskBindings = []KeyBinding{
	{Key: "j/k", Action: "move"},
	{Key: "a", Action: "add task"},
	{Key: "x", Action: "toggle done"},
	{Key: "+/-", Action: "raise/lower priority"},
	{Key: "s/S", Action: "add/toggle subtask"},
	{Key: "c/u/m", Action: "comment/attachment/minutes"},
	{Key: "D/T", Action: "duplicate/save template"},
	{Key: "A/d", Action: "archive/delete"},
	{Key: "b", Action: "bind focus timer"},
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDashboard:
		return taskBindings
	case ViewTasks:
		return append([]KeyBinding{
			{Key: "f/F", Action: "cycle status/priority filter"},
			{Key: "g", Action: "search"},
			{Key: "G", Action: "clear filters"},
		}, taskBindings...)
	case ViewKanban:
		return append([]KeyBinding{
			{Key: "h/l", Action: "switch column"},
			{Key: "H/L", Action: "move card left/right"},
		}, taskBindings...)
	case ViewCalendar:
		return append([]KeyBinding{
			{Key: "m", Action: "month/week"},
			{Key: "t", Action: "today"},
			{Key: "h/l j/k", Action: "move day"},
			{Key: "</>", Action: "previous/next period"},
			{Key: "[/]", Action: "select task on day"},
		}, taskBindings[1:]...)
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause"},
			{Key: "r", Action: "reset"},
			{Key: "n", Action: "skip phase"},
		}
	case ViewArchive:
		return []KeyBinding{{Key: "r", Action: "restore"}, {Key: "d", Action: "delete"}}
	case ViewNotifications:
		return []KeyBinding{{Key: "enter", Action: "mark read"}, {Key: "c", Action: "clear all"}}
	case ViewTeam:
		return []KeyBinding{{Key: "a", Action: "add member"}, {Key: "d", Action: "remove member"}}
	case ViewTemplates:
		return []KeyBinding{{Key: "enter", Action: "create task"}, {Key: "d", Action: "delete template"}}
	case ViewSettings:
		return []KeyBinding{
			{Key: "c", Action: "add category"},
			{Key: "l", Action: "add label"},
			{Key: "B", Action: "write backup"},
			{Key: "X X", Action: "clear all data"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func toKeyBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
