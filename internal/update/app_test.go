package update

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"

	"github.com/sandeepkv93/taskdash/internal/focus"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/storage"
	"github.com/sandeepkv93/taskdash/internal/store"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	s, err := store.Open(t.Context(), storage.NewMemoryRepository(), "demo@example.com",
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		store.WithLocation(time.UTC),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func newModel(t *testing.T, st *store.Store, opts ...Option) Model {
	t.Helper()
	base := []Option{WithContext(t.Context()), WithLogger(zaptest.NewLogger(t)), WithFs(afero.NewMemMapFs())}
	return NewModel(st, append(base, opts...)...)
}

func addTask(t *testing.T, st *store.Store, d model.TaskDraft) model.Task {
	t.Helper()
	task, err := st.AddTask(t.Context(), d)
	if err != nil {
		t.Fatalf("add %q: %v", d.Title, err)
	}
	return task
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newModel(t, newStore(t))
	if m.CurrentView != ViewDashboard {
		t.Fatalf("expected default view %q, got %q", ViewDashboard, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Calendar.Focus != model.DateOf(fixedNow) {
		t.Fatalf("calendar should open on today, got %s", m.Calendar.Focus)
	}
}

func TestNumberKeysAndTabSwitchViews(t *testing.T) {
	m := newModel(t, newStore(t))
	m = press(m, "2")
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", m.CurrentView)
	}
	m = press(m, "0")
	if m.CurrentView != ViewSettings {
		t.Fatalf("expected settings view, got %q", m.CurrentView)
	}
	m = press(m, "tab")
	if m.CurrentView != ViewTeam {
		t.Fatalf("expected team view after tab, got %q", m.CurrentView)
	}
	m = press(m, "tab", "tab")
	if m.CurrentView != ViewDashboard {
		t.Fatalf("expected tab to wrap to dashboard, got %q", m.CurrentView)
	}
	m = press(m, "shift+tab")
	if m.CurrentView != ViewTemplates {
		t.Fatalf("expected shift+tab to wrap to templates, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newModel(t, newStore(t))
	updated, _ := m.Update(SwitchViewMsg{View: ViewCalendar})
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newModel(t, newStore(t))
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuitKeyIsTypedInsidePrompt(t *testing.T) {
	m := newModel(t, newStore(t))
	m = press(m, "a", "q")
	if m.Quitting || m.Prompt != PromptAddTask {
		t.Fatalf("q inside a prompt must not quit: quitting=%v prompt=%q", m.Quitting, m.Prompt)
	}
	m = press(m, "esc")
	updated, cmd := m.Update(keyMsg("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected q to quit outside prompts")
	}
}

func TestAddTaskThroughPrompt(t *testing.T) {
	st := newStore(t)
	m := newModel(t, st)
	m = press(m, "2", "a", "Pay rent p:high #Personal", "enter")

	tasks := st.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Pay rent" || got.Priority != model.PriorityHigh || len(got.Categories) != 1 || got.Categories[0] != "Personal" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if m.SelectedTaskID != got.ID {
		t.Fatalf("new task should be selected, got %q", m.SelectedTaskID)
	}
	if m.Prompt != PromptNone || m.Status.IsError {
		t.Fatalf("prompt should close cleanly: prompt=%q status=%+v", m.Prompt, m.Status)
	}
}

func TestToggleDoneAndShiftPriority(t *testing.T) {
	st := newStore(t)
	task := addTask(t, st, model.TaskDraft{Title: "Write report"})
	m := newModel(t, st)
	m = press(m, "2", "x", "-")

	got, ok := st.Task(task.ID)
	if !ok {
		t.Fatal("task disappeared")
	}
	if got.Status != model.StatusDone {
		t.Fatalf("expected done, got %s", got.Status)
	}
	if got.Priority != model.PriorityLow {
		t.Fatalf("expected priority lowered to Low, got %s", got.Priority)
	}

	press(m, "+", "+", "+")
	got, _ = st.Task(task.ID)
	if got.Priority != model.PriorityHigh {
		t.Fatalf("priority should stop at High, got %s", got.Priority)
	}
}

func TestTaskFiltersCycleAndClear(t *testing.T) {
	st := newStore(t)
	addTask(t, st, model.TaskDraft{Title: "open"})
	addTask(t, st, model.TaskDraft{Title: "closed", Status: model.StatusDone})
	m := newModel(t, st)

	m = press(m, "2", "f")
	if m.Filter.Status != string(model.StatusTodo) {
		t.Fatalf("expected To Do filter, got %q", m.Filter.Status)
	}
	if n := len(m.visibleTasks()); n != 1 {
		t.Fatalf("expected one open task, got %d", n)
	}
	m = press(m, "f", "f", "f")
	if m.Filter.Status != "All" {
		t.Fatalf("expected filter to wrap to All, got %q", m.Filter.Status)
	}
	m = press(m, "F", "G")
	if m.Filter.Priority != "" || m.Filter.Status != "" {
		t.Fatalf("expected cleared filters, got %+v", m.Filter)
	}
}

func TestKanbanMovesSelectedCard(t *testing.T) {
	st := newStore(t)
	task := addTask(t, st, model.TaskDraft{Title: "card"})
	m := newModel(t, st)
	m = press(m, "3", "L")

	got, _ := st.Task(task.ID)
	if got.Status != model.StatusInProgress {
		t.Fatalf("expected In Progress, got %s", got.Status)
	}
	if m.kanbanCol != 1 || m.SelectedTaskID != task.ID {
		t.Fatalf("selection should follow the card: col=%d selected=%q", m.kanbanCol, m.SelectedTaskID)
	}
	m = press(m, "H", "H")
	got, _ = st.Task(task.ID)
	if got.Status != model.StatusTodo || m.kanbanCol != 0 {
		t.Fatalf("expected card back in To Do, got %s col=%d", got.Status, m.kanbanCol)
	}
}

func TestCalendarAddUsesFocusedDay(t *testing.T) {
	st := newStore(t)
	m := newModel(t, st)
	m = press(m, "4", "l", "a", "Dentist", "enter")

	tasks := st.Tasks()
	if len(tasks) != 1 || tasks[0].DueDate == nil {
		t.Fatalf("expected one dated task, got %+v", tasks)
	}
	if want := model.NewDate(2026, 3, 11); *tasks[0].DueDate != want {
		t.Fatalf("expected due %s, got %s", want, tasks[0].DueDate)
	}
	if m.SelectedTaskID != tasks[0].ID {
		t.Fatalf("expected calendar selection on the new task, got %q", m.SelectedTaskID)
	}
}

func TestCalendarModeAndPeriod(t *testing.T) {
	m := newModel(t, newStore(t))
	m = press(m, "4", "m")
	if m.Calendar.Mode != "week" {
		t.Fatalf("expected week mode, got %q", m.Calendar.Mode)
	}
	m = press(m, ">")
	if want := model.NewDate(2026, 3, 17); m.Calendar.Focus != want {
		t.Fatalf("expected focus %s, got %s", want, m.Calendar.Focus)
	}
	m = press(m, "t")
	if m.Calendar.Focus != model.DateOf(fixedNow) {
		t.Fatalf("expected today, got %s", m.Calendar.Focus)
	}
}

func TestPaletteAddGotoAndErrors(t *testing.T) {
	st := newStore(t)
	m := newModel(t, st)

	m = press(m, "/", "add Ship it p:low", "enter")
	if tasks := st.Tasks(); len(tasks) != 1 || tasks[0].Priority != model.PriorityLow {
		t.Fatalf("palette add failed: %+v", tasks)
	}
	if m.Palette.Active {
		t.Fatal("palette should close after running a command")
	}

	m = press(m, "/", "goto archive", "enter")
	if m.CurrentView != ViewArchive {
		t.Fatalf("expected archive view, got %q", m.CurrentView)
	}

	m = press(m, "/", "bogus", "enter")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}
}

func TestPaletteMoveAndArchiveSelected(t *testing.T) {
	st := newStore(t)
	task := addTask(t, st, model.TaskDraft{Title: "deploy"})
	m := newModel(t, st)

	m = press(m, "/", "move selected doing", "enter")
	if got, _ := st.Task(task.ID); got.Status != model.StatusInProgress {
		t.Fatalf("expected In Progress, got %s (%+v)", got.Status, m.Status)
	}
	m = press(m, "/", "archive "+task.ID, "enter")
	if len(st.ArchivedTasks()) != 1 {
		t.Fatalf("expected archived task, status %+v", m.Status)
	}
	m = press(m, "/", "restore nope", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected not found error, got %+v", m.Status)
	}
}

func TestPaletteExportAndImport(t *testing.T) {
	st := newStore(t)
	addTask(t, st, model.TaskDraft{Title: "exported"})
	fs := afero.NewMemMapFs()
	m := newModel(t, st, WithFs(fs), WithExportDir("/out"))

	m = press(m, "/", "export csv", "enter")
	path := "/out/tasks_demo@example.com_2026-03-10.csv"
	if ok, _ := afero.Exists(fs, path); !ok {
		t.Fatalf("expected %s, status %+v", path, m.Status)
	}

	if err := fs.MkdirAll("/in", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(fs, "/in/tasks.json", []byte(`[{"title":"A"},{"title":"B"}]`), 0o644); err != nil {
		t.Fatalf("write import: %v", err)
	}
	m = press(m, "/", "import /in/tasks.json", "enter")
	if m.Status.Text != "Successfully imported 2 tasks!" {
		t.Fatalf("unexpected import status: %+v", m.Status)
	}
	if n := len(st.Tasks()); n != 3 {
		t.Fatalf("expected 3 tasks after import, got %d", n)
	}
}

func TestArchiveAndRestoreFromViews(t *testing.T) {
	st := newStore(t)
	addTask(t, st, model.TaskDraft{Title: "old"})
	m := newModel(t, st)

	m = press(m, "2", "A")
	if len(st.Tasks()) != 0 || len(st.ArchivedTasks()) != 1 {
		t.Fatalf("expected task archived: active=%d archived=%d", len(st.Tasks()), len(st.ArchivedTasks()))
	}
	m = press(m, "8", "r")
	if len(st.Tasks()) != 1 || len(st.ArchivedTasks()) != 0 {
		t.Fatalf("expected task restored, status %+v", m.Status)
	}
}

func TestSubtaskPromptAndToggle(t *testing.T) {
	st := newStore(t)
	task := addTask(t, st, model.TaskDraft{Title: "parent"})
	m := newModel(t, st)

	m = press(m, "2", "s", "first step", "enter", "S")
	got, _ := st.Task(task.ID)
	if len(got.Subtasks) != 1 || !got.Subtasks[0].Completed {
		t.Fatalf("expected one completed subtask, got %+v", got.Subtasks)
	}
	m = press(m, "m", "abc", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected non-numeric minutes to be rejected, got %+v", m.Status)
	}
	press(m, "m", "15", "enter")
	if got, _ = st.Task(task.ID); got.TimeSpent != 15 {
		t.Fatalf("expected 15 minutes logged, got %d", got.TimeSpent)
	}
}

func TestFocusCompletionCreditsBoundTask(t *testing.T) {
	st := newStore(t)
	task := addTask(t, st, model.TaskDraft{Title: "deep work"})
	d := focus.Durations{Work: time.Minute, ShortBreak: time.Minute, LongBreak: 2 * time.Minute, LongBreakEvery: 4}
	m := newModel(t, st, WithFocusDurations(d))

	m = press(m, "2", "b", "6")
	if m.Focus.TaskID != task.ID {
		t.Fatalf("expected timer bound to %s, got %q", task.ID, m.Focus.TaskID)
	}
	updated, cmd := m.Update(keyMsg(" "))
	m = updated.(Model)
	if !m.Focus.Running || cmd == nil {
		t.Fatal("expected running timer with a tick command")
	}

	updated, cmd = m.Update(FocusTickMsg{ID: m.focusTickID + 1})
	m = updated.(Model)
	if cmd != nil || m.Focus.Remaining != time.Minute {
		t.Fatal("stale tick must be ignored")
	}

	for i := 0; i < 60; i++ {
		updated, _ = m.Update(FocusTickMsg{ID: m.focusTickID})
		m = updated.(Model)
	}
	if m.Focus.Mode != focus.ModeShortBreak || m.Focus.Completed != 1 || m.Focus.Running {
		t.Fatalf("unexpected timer after completion: %+v", m.Focus)
	}
	if m.Status.Text != focus.CompleteMessage {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if got, _ := st.Task(task.ID); got.TimeSpent != 1 {
		t.Fatalf("expected one minute credited, got %d", got.TimeSpent)
	}
}

func TestSettingsClearAllNeedsSecondPress(t *testing.T) {
	st := newStore(t)
	addTask(t, st, model.TaskDraft{Title: "keep?"})
	m := newModel(t, st)

	m = press(m, "0", "X")
	if len(st.Tasks()) != 1 || !m.Status.IsError {
		t.Fatalf("first X should only ask for confirmation: %+v", m.Status)
	}
	m = press(m, "X")
	if len(st.Tasks()) != 0 || len(st.History()) != 0 {
		t.Fatalf("expected data cleared, got %d tasks", len(st.Tasks()))
	}
	if m.confirmClear {
		t.Fatal("confirmation should reset after clearing")
	}
}

func TestSettingsBackupWritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := newModel(t, newStore(t), WithFs(fs), WithExportDir("/backups"))
	m = press(m, "0", "B")
	path := "/backups/taskdash_backup_demo@example.com_2026-03-10.json"
	if ok, _ := afero.Exists(fs, path); !ok {
		t.Fatalf("expected %s, status %+v", path, m.Status)
	}
}

func TestTeamPromptAddsMember(t *testing.T) {
	st := newStore(t)
	m := newModel(t, st)
	updated, _ := m.Update(SwitchViewMsg{View: ViewTeam})
	m = press(updated.(Model), "a", "Ada Lovelace ada@example.com lead", "enter")

	for _, member := range st.TeamMembers() {
		if member.Email == "ada@example.com" {
			if member.Name != "Ada Lovelace" || member.Role != model.RoleLead {
				t.Fatalf("unexpected member: %+v", member)
			}
			return
		}
	}
	t.Fatalf("member not added, status %+v", m.Status)
}

func TestParseHelpers(t *testing.T) {
	if name, color := splitLabel("Needs Review #ff8800"); name != "Needs Review" || color != "#ff8800" {
		t.Fatalf("unexpected label split: %q %q", name, color)
	}
	if _, color := splitLabel("Blocked"); color != model.DefaultLabelColor {
		t.Fatalf("expected default color, got %q", color)
	}
	if got := cycle([]string{"a", "b", "c"}, "c"); got != "a" {
		t.Fatalf("expected wrap to a, got %q", got)
	}
	if got := cycle([]string{"a", "b"}, "zzz"); got != "b" {
		t.Fatalf("unknown value should advance from the first entry, got %q", got)
	}
}

func TestStoreChangesRearmWait(t *testing.T) {
	ch := make(chan store.Change, 1)
	m := newModel(t, newStore(t), WithChanges(ch))
	wait := m.Init()
	if wait == nil {
		t.Fatal("expected Init to wait for store changes")
	}
	ch <- store.Change{TaskID: "x"}
	msg, ok := wait().(StoreChangedMsg)
	if !ok || msg.Change.TaskID != "x" {
		t.Fatalf("unexpected message: %#v", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected the wait to be re-armed")
	}
	if newModel(t, newStore(t)).Init() != nil {
		t.Fatal("no change feed means no wait command")
	}
}

func TestViewRendersCoreState(t *testing.T) {
	st := newStore(t)
	addTask(t, st, model.TaskDraft{Title: "Visible task"})
	m := newModel(t, st)
	out := m.View()
	for _, want := range []string{"taskdash", "demo@example.com", "Dashboard", "Visible task"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	m = press(m, "?")
	if !strings.Contains(m.View(), "help") {
		t.Fatal("expected help panel when toggled")
	}
}
