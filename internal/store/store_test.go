package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/sandeepkv93/taskdash/internal/insights"
	"github.com/sandeepkv93/taskdash/internal/metrics"
	"github.com/sandeepkv93/taskdash/internal/model"
	"github.com/sandeepkv93/taskdash/internal/storage"
)

type testEnv struct {
	store   *Store
	repo    *storage.MemoryRepository
	metrics *metrics.Metrics
	clock   *time.Time
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	n := 0
	repo := storage.NewMemoryRepository()
	m := metrics.New(prometheus.NewRegistry())
	s, err := Open(t.Context(), repo, "demo@example.com",
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithLogger(zaptest.NewLogger(t)),
		WithMetrics(m),
		WithLocation(time.UTC),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return testEnv{store: s, repo: repo, metrics: m, clock: &clock}
}

func mustAdd(t *testing.T, s *Store, d model.TaskDraft) model.Task {
	t.Helper()
	task, err := s.AddTask(t.Context(), d)
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	return task
}

func TestAddTaskDefaultsAndLogs(t *testing.T) {
	env := newTestEnv(t)
	s := env.store

	task := mustAdd(t, s, model.TaskDraft{Title: "Write report", Priority: model.PriorityHigh})
	if task.ID == "" || !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Status != model.StatusTodo || task.TimeSpent != 0 {
		t.Fatalf("defaults not applied: %+v", task)
	}
	if got := s.Tasks(); len(got) != 1 || got[0].Title != "Write report" {
		t.Fatalf("unexpected tasks: %#v", got)
	}
	hist := s.History()
	if len(hist) != 1 || hist[0].Action != model.ActionCreated || hist[0].Task.ID != task.ID {
		t.Fatalf("unexpected history: %#v", hist)
	}
	notes := s.Notifications()
	if len(notes) != 1 || notes[0].Message != `Task "Write report" created successfully` || notes[0].Type != model.SeveritySuccess {
		t.Fatalf("unexpected notifications: %#v", notes)
	}
	if s.UnreadCount() != 1 {
		t.Fatalf("expected one unread notification, got %d", s.UnreadCount())
	}
	if got := testutil.ToFloat64(env.metrics.Mutations.WithLabelValues("add_task")); got != 1 {
		t.Fatalf("expected add_task metric 1, got %v", got)
	}
}

func TestAddTaskIDsAreUnique(t *testing.T) {
	s := newTestEnv(t).store
	seen := map[string]bool{}
	for i := range 20 {
		task := mustAdd(t, s, model.TaskDraft{Title: fmt.Sprintf("task %d", i)})
		if seen[task.ID] {
			t.Fatalf("duplicate id %q", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddTaskBlankTitleRejected(t *testing.T) {
	s := newTestEnv(t).store
	_, err := s.AddTask(t.Context(), model.TaskDraft{Title: "   "})
	if !errors.Is(err, model.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if len(s.Tasks()) != 0 || len(s.History()) != 0 || len(s.Notifications()) != 0 {
		t.Fatal("rejected draft changed the store")
	}
}

func TestAddTaskStripsCallerOwnedFields(t *testing.T) {
	s := newTestEnv(t).store
	task := mustAdd(t, s, model.TaskDraft{
		Title:    "With subtasks",
		Subtasks: []model.Subtask{{Title: "first"}},
	})
	if task.Subtasks[0].ID == "" || task.Subtasks[0].CreatedAt.IsZero() {
		t.Fatalf("subtask not initialised: %+v", task.Subtasks[0])
	}
	if len(task.Comments) != 0 || len(task.Attachments) != 0 {
		t.Fatalf("expected empty comments and attachments: %+v", task)
	}
}

func TestUpdateTaskLeavesUnsetFieldsAndAdvancesUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	s := env.store
	task := mustAdd(t, s, model.TaskDraft{Title: "Write report", Description: "quarterly", Categories: []string{"Work"}})

	status := model.StatusInProgress
	updated, ok, err := s.UpdateTask(t.Context(), task.ID, model.TaskPatch{Status: &status})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if updated.Description != "quarterly" || updated.Title != "Write report" || len(updated.Categories) != 1 {
		t.Fatalf("unset fields changed: %+v", updated)
	}
	if updated.Status != model.StatusInProgress {
		t.Fatalf("status not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", task.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Fatal("createdAt changed")
	}
	h := s.History()[0]
	if h.Action != model.ActionUpdated || len(h.Fields) != 1 || h.Fields[0] != "status" {
		t.Fatalf("unexpected history entry: %#v", h)
	}
}

func TestUpdatedAtNeverMovesBackwards(t *testing.T) {
	env := newTestEnv(t)
	s := env.store
	task := mustAdd(t, s, model.TaskDraft{Title: "clock skew"})

	*env.clock = env.clock.Add(-time.Hour)
	title := "still later"
	updated, _, err := s.UpdateTask(t.Context(), task.ID, model.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Fatalf("updatedAt moved backwards: %v -> %v", task.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateTaskUnknownIDIsNoop(t *testing.T) {
	s := newTestEnv(t).store
	title := "x"
	_, ok, err := s.UpdateTask(t.Context(), "missing", model.TaskPatch{Title: &title})
	if ok || err != nil {
		t.Fatalf("expected silent no-op, got ok=%v err=%v", ok, err)
	}
	if len(s.History()) != 0 {
		t.Fatal("no-op update wrote history")
	}
}

func TestUpdateTaskRejectsInvalidPatch(t *testing.T) {
	s := newTestEnv(t).store
	task := mustAdd(t, s, model.TaskDraft{Title: "keep"})
	blank := " "
	_, _, err := s.UpdateTask(t.Context(), task.ID, model.TaskPatch{Title: &blank})
	if !errors.Is(err, model.ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask, got %v", err)
	}
	if got, _ := s.Task(task.ID); got.Title != "keep" {
		t.Fatalf("invalid patch applied: %+v", got)
	}
}

func TestDeleteTaskActiveArchivedAndUnknown(t *testing.T) {
	s := newTestEnv(t).store
	ctx := t.Context()
	a := mustAdd(t, s, model.TaskDraft{Title: "active"})
	b := mustAdd(t, s, model.TaskDraft{Title: "archived"})
	if _, err := s.ArchiveTask(ctx, b.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if ok, err := s.DeleteTask(ctx, a.ID); !ok || err != nil {
		t.Fatalf("delete active: ok=%v err=%v", ok, err)
	}
	if ok, err := s.DeleteTask(ctx, b.ID); !ok || err != nil {
		t.Fatalf("delete archived: ok=%v err=%v", ok, err)
	}
	if len(s.Tasks()) != 0 || len(s.ArchivedTasks()) != 0 {
		t.Fatal("tasks not removed")
	}

	ok, err := s.DeleteTask(ctx, "ghost")
	if ok || err != nil {
		t.Fatalf("delete unknown: ok=%v err=%v", ok, err)
	}
	h := s.History()[0]
	if h.Action != model.ActionDeleted || h.Task != nil {
		t.Fatalf("expected deleted entry with nil snapshot, got %#v", h)
	}
}

func TestDuplicateTask(t *testing.T) {
	s := newTestEnv(t).store
	src := mustAdd(t, s, model.TaskDraft{Title: "Write report", Categories: []string{"Work"}})
	dup, ok, err := s.DuplicateTask(t.Context(), src.ID)
	if err != nil || !ok {
		t.Fatalf("duplicate: ok=%v err=%v", ok, err)
	}
	if dup.ID == src.ID || dup.Title != "Write report (Copy)" || len(dup.Categories) != 1 {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	if !dup.CreatedAt.After(src.CreatedAt) || !dup.CreatedAt.Equal(dup.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %+v", dup)
	}
	if s.History()[0].Action != model.ActionDuplicated {
		t.Fatalf("unexpected history head: %#v", s.History()[0])
	}
	if _, ok, _ := s.DuplicateTask(t.Context(), "missing"); ok {
		t.Fatal("expected ok=false for unknown id")
	}
}

func TestArchiveRestoreRoundTripPreservesContent(t *testing.T) {
	s := newTestEnv(t).store
	ctx := t.Context()
	orig := mustAdd(t, s, model.TaskDraft{Title: "Write report", Labels: []string{"1"}})

	if ok, err := s.ArchiveTask(ctx, orig.ID); !ok || err != nil {
		t.Fatalf("archive: ok=%v err=%v", ok, err)
	}
	archived := s.ArchivedTasks()
	if len(s.Tasks()) != 0 || len(archived) != 1 || archived[0].ArchivedAt == nil {
		t.Fatalf("unexpected archive state: %#v", archived)
	}
	if ok, err := s.RestoreTask(ctx, orig.ID); !ok || err != nil {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}
	restored, ok := s.Task(orig.ID)
	if !ok || restored.ArchivedAt != nil {
		t.Fatalf("unexpected restored task: %+v", restored)
	}
	if restored.Title != orig.Title || !restored.UpdatedAt.Equal(orig.UpdatedAt) || len(restored.Labels) != 1 {
		t.Fatalf("content changed across archive/restore: %+v vs %+v", restored, orig)
	}
	actions := []model.Action{s.History()[0].Action, s.History()[1].Action}
	if actions[0] != model.ActionRestored || actions[1] != model.ActionArchived {
		t.Fatalf("unexpected history actions: %v", actions)
	}
	if ok, _ := s.RestoreTask(ctx, orig.ID); ok {
		t.Fatal("restore of an active task must report ok=false")
	}
}

func TestBulkDeleteSingleHistoryEntry(t *testing.T) {
	s := newTestEnv(t).store
	a := mustAdd(t, s, model.TaskDraft{Title: "a"})
	b := mustAdd(t, s, model.TaskDraft{Title: "b"})
	c := mustAdd(t, s, model.TaskDraft{Title: "c"})
	before := len(s.History())

	n, err := s.BulkDelete(t.Context(), []string{a.ID, c.ID, "ghost"})
	if err != nil || n != 2 {
		t.Fatalf("bulk delete: n=%d err=%v", n, err)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Fatalf("unexpected remaining tasks: %#v", tasks)
	}
	hist := s.History()
	if len(hist) != before+1 {
		t.Fatalf("expected exactly one new history entry, got %d", len(hist)-before)
	}
	if hist[0].Action != model.ActionBulkDeleted || hist[0].Bulk == nil || hist[0].Bulk.Count != 2 || len(hist[0].Bulk.Tasks) != 2 {
		t.Fatalf("unexpected bulk entry: %#v", hist[0])
	}
}

func TestHistoryAndNotificationsCapAtFifty(t *testing.T) {
	s := newTestEnv(t).store
	for i := range 60 {
		mustAdd(t, s, model.TaskDraft{Title: fmt.Sprintf("t%d", i)})
	}
	hist := s.History()
	if len(hist) != model.LogCapacity {
		t.Fatalf("expected %d history entries, got %d", model.LogCapacity, len(hist))
	}
	if hist[0].Task.Title != "t59" {
		t.Fatalf("expected newest first, got %q", hist[0].Task.Title)
	}
	if len(s.Notifications()) != model.LogCapacity {
		t.Fatalf("expected capped notifications, got %d", len(s.Notifications()))
	}
}

func TestWriteThroughPersistsEveryMutation(t *testing.T) {
	env := newTestEnv(t)
	task := mustAdd(t, env.store, model.TaskDraft{Title: "persist me"})

	reopened, err := Open(t.Context(), env.repo, "demo@example.com")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Task(task.ID)
	if !ok || got.Title != "persist me" {
		t.Fatalf("task not persisted: %+v", got)
	}
	if len(reopened.History()) != 1 || len(reopened.Notifications()) != 1 {
		t.Fatal("logs not persisted")
	}
}

type failingRepo struct {
	storage.Repository
	err error
}

func (f failingRepo) Save(context.Context, string, storage.State) error { return f.err }

func TestSaveFailureKeepsMutationAndReportsError(t *testing.T) {
	boom := errors.New("disk full")
	m := metrics.New(prometheus.NewRegistry())
	s, err := Open(t.Context(), failingRepo{Repository: storage.NewMemoryRepository(), err: boom}, "u", WithMetrics(m))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	task, err := s.AddTask(t.Context(), model.TaskDraft{Title: "survives"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if task.ID == "" || len(s.Tasks()) != 1 {
		t.Fatal("in-memory mutation lost after failed save")
	}
	if got := testutil.ToFloat64(m.SaveFailures); got != 1 {
		t.Fatalf("expected one save failure, got %v", got)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := newTestEnv(t).store
	var got []Change
	cancel := s.Subscribe(func(c Change) { got = append(got, c) })
	task := mustAdd(t, s, model.TaskDraft{Title: "watched"})
	cancel()
	mustAdd(t, s, model.TaskDraft{Title: "unwatched"})

	if len(got) != 1 || got[0].Op != "add_task" || got[0].TaskID != task.ID {
		t.Fatalf("unexpected changes: %#v", got)
	}
}

func TestQueriesExampleScenario(t *testing.T) {
	env := newTestEnv(t)
	s := env.store
	mustAdd(t, s, model.TaskDraft{Title: "high", Priority: model.PriorityHigh})
	mustAdd(t, s, model.TaskDraft{Title: "medium", Priority: model.PriorityMedium, Status: model.StatusInProgress})
	mustAdd(t, s, model.TaskDraft{Title: "low", Priority: model.PriorityLow, Status: model.StatusDone})

	stats := s.Stats()
	if stats.Total != 3 || stats.Completed != 1 || stats.InProgress != 1 || stats.Todo != 1 || stats.HighPriority != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if got := s.Search("MED", insights.Filters{Status: insights.All}); len(got) != 1 || got[0].Title != "medium" {
		t.Fatalf("unexpected search: %#v", got)
	}
	if p := s.Productivity(); p.CompletedToday != 1 {
		t.Fatalf("unexpected productivity: %+v", p)
	}
	if len(s.TasksByStatus(model.StatusDone)) != 1 {
		t.Fatal("TasksByStatus mismatch")
	}

	yesterday := model.DateOf(*env.clock).AddDays(-1)
	mustAdd(t, s, model.TaskDraft{Title: "late", DueDate: &yesterday})
	if o := s.Overdue(); len(o) != 1 || o[0].Title != "late" {
		t.Fatalf("unexpected overdue: %#v", o)
	}
}

func TestClearAllDataKeepsTaxonomy(t *testing.T) {
	s := newTestEnv(t).store
	ctx := t.Context()
	task := mustAdd(t, s, model.TaskDraft{Title: "gone"})
	if _, err := s.ArchiveTask(ctx, task.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := s.ClearAllData(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(s.Tasks()) != 0 || len(s.ArchivedTasks()) != 0 || len(s.History()) != 0 || len(s.Notifications()) != 0 {
		t.Fatal("data not cleared")
	}
	if len(s.Categories()) != 5 || len(s.Labels()) != 4 {
		t.Fatal("taxonomy should survive ClearAllData")
	}
}
