package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/sandeepkv93/taskdash/internal/model"
)

// History returns the activity log, newest first.
func (s *Store) History() []model.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.HistoryEntry{}, s.state.History...)
}

// Notifications returns the notification log, newest first.
func (s *Store) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notification{}, s.state.Notifications...)
}

func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.state.Notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

func (s *Store) AddNotification(ctx context.Context, message string, kind model.Severity) (model.Notification, error) {
	var out model.Notification
	_, err := s.mutate(ctx, "notify", func() (string, bool, error) {
		if kind == "" {
			kind = model.SeverityInfo
		}
		probe := model.Notification{ID: "probe", Message: message, Type: kind}
		if err := probe.Validate(); err != nil {
			return "", false, err
		}
		out = s.notifyLocked(message, kind)
		return "", true, nil
	})
	return out, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "mark_read", func() (string, bool, error) {
		i := slices.IndexFunc(s.state.Notifications, func(n model.Notification) bool { return n.ID == id })
		if i < 0 {
			return "", false, nil
		}
		s.state.Notifications[i].Read = true
		return "", true, nil
	})
}

func (s *Store) ClearNotifications(ctx context.Context) error {
	_, err := s.mutate(ctx, "clear_notifications", func() (string, bool, error) {
		s.state.Notifications = []model.Notification{}
		return "", true, nil
	})
	return err
}

func (s *Store) Templates() []model.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Template{}, s.state.Templates...)
}

// SaveAsTemplate stores the shape of active task taskID under its title.
func (s *Store) SaveAsTemplate(ctx context.Context, taskID string) (model.Template, bool, error) {
	var tpl model.Template
	ok, err := s.mutate(ctx, "save_template", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, taskID)
		if i < 0 {
			return "", false, nil
		}
		src := s.state.Tasks[i]
		tpl = model.Template{
			ID:        s.newID(),
			Name:      src.Title,
			Task:      model.DraftOf(src),
			CreatedAt: s.stampLocked(),
		}
		s.state.Templates = append(s.state.Templates, tpl)
		s.notifyLocked("Template saved successfully", model.SeveritySuccess)
		return taskID, true, nil
	})
	return tpl, ok, err
}

// CreateFromTemplate adds a new task built from templateID via AddTask.
func (s *Store) CreateFromTemplate(ctx context.Context, templateID string) (model.Task, bool, error) {
	s.mu.RLock()
	i := slices.IndexFunc(s.state.Templates, func(t model.Template) bool { return t.ID == templateID })
	var draft model.TaskDraft
	if i >= 0 {
		draft = s.state.Templates[i].Task
	}
	s.mu.RUnlock()
	if i < 0 {
		return model.Task{}, false, nil
	}
	task, err := s.AddTask(ctx, draft)
	if err != nil && task.ID == "" {
		return model.Task{}, true, fmt.Errorf("create from template: %w", err)
	}
	return task, true, err
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "delete_template", func() (string, bool, error) {
		i := slices.IndexFunc(s.state.Templates, func(t model.Template) bool { return t.ID == id })
		if i < 0 {
			return "", false, nil
		}
		s.state.Templates = slices.Delete(s.state.Templates, i, i+1)
		return "", true, nil
	})
}
