package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/sandeepkv93/taskdash/internal/model"
)

// Tasks returns a copy of the active tasks in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Tasks)
}

func (s *Store) ArchivedTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Archived)
}

// Task looks up an active task by id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.findLocked(s.state.Tasks, id); i >= 0 {
		return s.state.Tasks[i].Clone(), true
	}
	return model.Task{}, false
}

func (s *Store) TasksByStatus(status model.Status) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0)
	for _, t := range s.state.Tasks {
		if t.Status == status {
			out = append(out, t.Clone())
		}
	}
	return out
}

func cloneAll(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// AddTask creates a task from d. A draft that fails validation leaves the
// store untouched.
func (s *Store) AddTask(ctx context.Context, d model.TaskDraft) (model.Task, error) {
	var created model.Task
	_, err := s.mutate(ctx, "add_task", func() (string, bool, error) {
		task, err := s.buildTaskLocked(d)
		if err != nil {
			return "", false, err
		}
		s.state.Tasks = append(s.state.Tasks, task)
		s.historyLocked(model.ActionCreated, &task, nil, nil)
		s.notifyLocked(fmt.Sprintf(`Task "%s" created successfully`, task.Title), model.SeveritySuccess)
		created = task.Clone()
		return task.ID, true, nil
	})
	if created.ID == "" {
		return model.Task{}, err
	}
	return created, err
}

func (s *Store) buildTaskLocked(d model.TaskDraft) (model.Task, error) {
	stamp := s.stampLocked()
	task := model.NewTask(s.newID(), d, stamp)
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == "" {
			task.Subtasks[i].ID = s.newID()
		}
		if task.Subtasks[i].CreatedAt.IsZero() {
			task.Subtasks[i].CreatedAt = stamp
		}
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask merges the set fields of patch into the active task id.
// Unknown ids report ok=false and change nothing.
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, bool, error) {
	var updated model.Task
	ok, err := s.mutate(ctx, "update_task", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, id)
		if i < 0 {
			return "", false, nil
		}
		next := s.state.Tasks[i].Clone()
		patch.Apply(&next)
		if err := next.Validate(); err != nil {
			return "", false, err
		}
		next.UpdatedAt = s.stampLocked()
		s.state.Tasks[i] = next
		s.historyLocked(model.ActionUpdated, &next, patch.Fields(), nil)
		updated = next.Clone()
		return id, true, nil
	})
	return updated, ok, err
}

// DeleteTask removes id from the active set, or failing that from the
// archive. A history entry is written either way; its snapshot is nil when
// nothing matched.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	found := false
	_, err := s.mutate(ctx, "delete_task", func() (string, bool, error) {
		var removed *model.Task
		if i := s.findLocked(s.state.Tasks, id); i >= 0 {
			t := s.state.Tasks[i]
			removed = &t
			s.state.Tasks = slices.Delete(s.state.Tasks, i, i+1)
		} else if i := s.findLocked(s.state.Archived, id); i >= 0 {
			t := s.state.Archived[i]
			removed = &t
			s.state.Archived = slices.Delete(s.state.Archived, i, i+1)
		}
		found = removed != nil
		s.historyLocked(model.ActionDeleted, removed, nil, nil)
		return id, true, nil
	})
	return found, err
}

// DuplicateTask appends a copy of id with a fresh id, fresh timestamps and a
// " (Copy)" title suffix.
func (s *Store) DuplicateTask(ctx context.Context, id string) (model.Task, bool, error) {
	var dup model.Task
	ok, err := s.mutate(ctx, "duplicate_task", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, id)
		if i < 0 {
			return "", false, nil
		}
		c := s.state.Tasks[i].Clone()
		stamp := s.stampLocked()
		c.ID = s.newID()
		c.Title += " (Copy)"
		c.CreatedAt = stamp
		c.UpdatedAt = stamp
		s.state.Tasks = append(s.state.Tasks, c)
		s.historyLocked(model.ActionDuplicated, &c, nil, nil)
		dup = c.Clone()
		return c.ID, true, nil
	})
	return dup, ok, err
}

// ArchiveTask moves id to the archive and stamps archivedAt. Task content,
// updatedAt included, is otherwise preserved.
func (s *Store) ArchiveTask(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "archive_task", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, id)
		if i < 0 {
			return "", false, nil
		}
		t := s.state.Tasks[i]
		stamp := s.stampLocked()
		t.ArchivedAt = &stamp
		s.state.Tasks = slices.Delete(s.state.Tasks, i, i+1)
		s.state.Archived = append(s.state.Archived, t)
		s.historyLocked(model.ActionArchived, &t, nil, nil)
		return id, true, nil
	})
}

// RestoreTask moves id back to the active set without archivedAt.
func (s *Store) RestoreTask(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "restore_task", func() (string, bool, error) {
		i := s.findLocked(s.state.Archived, id)
		if i < 0 {
			return "", false, nil
		}
		t := s.state.Archived[i]
		t.ArchivedAt = nil
		s.state.Archived = slices.Delete(s.state.Archived, i, i+1)
		s.state.Tasks = append(s.state.Tasks, t)
		s.historyLocked(model.ActionRestored, &t, nil, nil)
		return id, true, nil
	})
}

// BulkDelete removes every active task in ids in one pass and records a
// single bulk entry. It returns how many tasks were removed.
func (s *Store) BulkDelete(ctx context.Context, ids []string) (int, error) {
	count := 0
	_, err := s.mutate(ctx, "bulk_delete", func() (string, bool, error) {
		drop := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			drop[id] = struct{}{}
		}
		removed := make([]model.Task, 0)
		kept := s.state.Tasks[:0:0]
		for _, t := range s.state.Tasks {
			if _, ok := drop[t.ID]; ok {
				removed = append(removed, t.Clone())
				continue
			}
			kept = append(kept, t)
		}
		s.state.Tasks = kept
		count = len(removed)
		s.historyLocked(model.ActionBulkDeleted, nil, nil, &model.BulkSummary{Count: count, Tasks: removed})
		return "", true, nil
	})
	return count, err
}

// touchTaskLocked applies fn to the active task id and refreshes updatedAt.
func (s *Store) touchTaskLocked(id string, fn func(t *model.Task) error) (bool, error) {
	i := s.findLocked(s.state.Tasks, id)
	if i < 0 {
		return false, nil
	}
	next := s.state.Tasks[i].Clone()
	if err := fn(&next); err != nil {
		return false, err
	}
	next.UpdatedAt = s.stampLocked()
	s.state.Tasks[i] = next
	return true, nil
}
