package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/taskdash/internal/model"
)

func (s *Store) AddSubtask(ctx context.Context, taskID, title string) (model.Subtask, bool, error) {
	var sub model.Subtask
	ok, err := s.mutate(ctx, "add_subtask", func() (string, bool, error) {
		if strings.TrimSpace(title) == "" {
			return "", false, fmt.Errorf("%w: subtask title is required", model.ErrInvalidTask)
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			sub = model.Subtask{ID: s.newID(), Title: strings.TrimSpace(title), CreatedAt: s.now()}
			t.Subtasks = append(t.Subtasks, sub)
			return nil
		})
		return taskID, changed, err
	})
	return sub, ok, err
}

func (s *Store) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (bool, error) {
	return s.mutate(ctx, "toggle_subtask", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, taskID)
		if i < 0 || !slices.ContainsFunc(s.state.Tasks[i].Subtasks, func(st model.Subtask) bool { return st.ID == subtaskID }) {
			return "", false, nil
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			for j := range t.Subtasks {
				if t.Subtasks[j].ID == subtaskID {
					t.Subtasks[j].Completed = !t.Subtasks[j].Completed
				}
			}
			return nil
		})
		return taskID, changed, err
	})
}

func (s *Store) DeleteSubtask(ctx context.Context, taskID, subtaskID string) (bool, error) {
	return s.mutate(ctx, "delete_subtask", func() (string, bool, error) {
		i := s.findLocked(s.state.Tasks, taskID)
		if i < 0 || !slices.ContainsFunc(s.state.Tasks[i].Subtasks, func(st model.Subtask) bool { return st.ID == subtaskID }) {
			return "", false, nil
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			t.Subtasks = slices.DeleteFunc(t.Subtasks, func(st model.Subtask) bool { return st.ID == subtaskID })
			return nil
		})
		return taskID, changed, err
	})
}

func (s *Store) AddComment(ctx context.Context, taskID, text string) (model.Comment, bool, error) {
	var c model.Comment
	ok, err := s.mutate(ctx, "add_comment", func() (string, bool, error) {
		if strings.TrimSpace(text) == "" {
			return "", false, fmt.Errorf("%w: comment text is required", model.ErrInvalidTask)
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			c = model.Comment{ID: s.newID(), Text: text, Timestamp: s.now()}
			t.Comments = append(t.Comments, c)
			return nil
		})
		return taskID, changed, err
	})
	return c, ok, err
}

// AddAttachment records attachment metadata; no file content is kept.
func (s *Store) AddAttachment(ctx context.Context, taskID, name string) (model.Attachment, bool, error) {
	var a model.Attachment
	ok, err := s.mutate(ctx, "add_attachment", func() (string, bool, error) {
		if strings.TrimSpace(name) == "" {
			return "", false, fmt.Errorf("%w: attachment name is required", model.ErrInvalidTask)
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			a = model.Attachment{ID: s.newID(), Name: name, AddedAt: s.now()}
			t.Attachments = append(t.Attachments, a)
			return nil
		})
		return taskID, changed, err
	})
	return a, ok, err
}

// AddTimeEntry adds minutes to the task's timeSpent.
func (s *Store) AddTimeEntry(ctx context.Context, taskID string, minutes int) (bool, error) {
	return s.mutate(ctx, "add_time", func() (string, bool, error) {
		if minutes <= 0 {
			return "", false, fmt.Errorf("%w: got %d", ErrInvalidMinutes, minutes)
		}
		changed, err := s.touchTaskLocked(taskID, func(t *model.Task) error {
			t.TimeSpent += minutes
			return nil
		})
		return taskID, changed, err
	})
}
