package views

import (
	"strings"
	"testing"
)

func TestRenderTaskListEmptyAndRows(t *testing.T) {
	empty := RenderTaskList(TaskListData{Title: "tasks", Empty: "(no tasks)"})
	if !strings.Contains(empty, "tasks:") || !strings.Contains(empty, "(no tasks)") {
		t.Fatalf("unexpected empty list: %q", empty)
	}

	out := RenderTaskList(TaskListData{
		Title: "tasks",
		Query: "report",
		Rows: []TaskRow{
			{Title: "Write report", Status: "To Do", Priority: "High", Due: "2026-03-12", Categories: []string{"Work"}, Subtasks: "1/2"},
			{Title: "Pay rent", Status: "Done", Priority: "Low", Done: true},
		},
	})
	for _, want := range []string{`query: "report"`, "[RED]", "Write report", "due:2026-03-12", "1/2", "#Work", "[GREEN]", "Pay rent"} {
		if !strings.Contains(out, want) {
			t.Fatalf("task list missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTaskDetail(t *testing.T) {
	if got := RenderTaskDetail(TaskDetailData{}); !strings.Contains(got, "(no selection)") {
		t.Fatalf("expected placeholder, got %q", got)
	}
	out := RenderTaskDetail(TaskDetailData{
		Title:       "Write report",
		Status:      "In Progress",
		Priority:    "High",
		Labels:      []string{"Bug"},
		Subtasks:    []SubtaskRow{{Title: "outline", Completed: true}, {Title: "draft"}},
		Comments:    []string{"looks good"},
		Attachments: []string{"notes.pdf"},
		TimeSpent:   25,
	})
	for _, want := range []string{"status: In Progress", "labels: Bug", "[x] outline", "[ ] draft", "- looks good", "attachments: notes.pdf", "time: 25m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("detail missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDayCell(t *testing.T) {
	if got := renderDayCell(DayCell{Blank: true}); got != "     " {
		t.Fatalf("blank cell = %q", got)
	}
	if got := renderDayCell(DayCell{Label: "9", Count: 1}); !strings.Contains(got, "9*") {
		t.Fatalf("busy cell = %q", got)
	}
	if got := renderDayCell(DayCell{Label: "10", Count: 1, Overdue: 1}); !strings.Contains(got, "10!") {
		t.Fatalf("overdue cell = %q", got)
	}
}

func TestPromptPaletteAndNotificationHideWhenIdle(t *testing.T) {
	if RenderPrompt("", "x") != "" || RenderCommandPalette(false, "x") != "" || RenderNotification("info", " ") != "" {
		t.Fatal("idle widgets must render nothing")
	}
	if got := RenderNotification("warning", `Task "Ship" is due`); got != `notification: [WARNING] Task "Ship" is due` {
		t.Fatalf("notification = %q", got)
	}
}

func TestRenderMarkdownFallsBackOnBlank(t *testing.T) {
	if RenderMarkdown("  ") != "" {
		t.Fatal("blank markdown should render empty")
	}
	if got := RenderMarkdown("**bold** text"); !strings.Contains(got, "bold") {
		t.Fatalf("markdown lost content: %q", got)
	}
}

func TestRenderAppShowsUnreadBadge(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "taskdash · demo@example.com",
		Tabs:       []string{"1 Dashboard", "2 Tasks"},
		Unread:     3,
		LeftPane:   "dashboard:",
		StatusLine: "ready",
		Footer:     "? help",
	})
	for _, want := range []string{"taskdash", "3", "1 Dashboard", "dashboard:", "ready", "? help"} {
		if !strings.Contains(out, want) {
			t.Fatalf("app missing %q:\n%s", want, out)
		}
	}
}
