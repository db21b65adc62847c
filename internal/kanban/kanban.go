package kanban

import (
	"context"
	"fmt"
	"slices"

	"github.com/sandeepkv93/taskdash/internal/model"
)

type Column struct {
	Status model.Status
	Tasks  []model.Task
}

// Columns groups tasks into the To Do, In Progress and Done columns,
// keeping insertion order inside each column.
func Columns(tasks []model.Task) []Column {
	cols := make([]Column, len(model.Statuses))
	for i, st := range model.Statuses {
		cols[i] = Column{Status: st, Tasks: []model.Task{}}
	}
	for _, t := range tasks {
		if i := slices.Index(model.Statuses, t.Status); i >= 0 {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// Board is the slice of the store a column move needs.
type Board interface {
	Task(id string) (model.Task, bool)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, bool, error)
}

// Move sets id's status to to. It reports false without writing when the
// task is unknown or already in that column.
func Move(ctx context.Context, b Board, id string, to model.Status) (bool, error) {
	if !to.IsValid() {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidStatus, to)
	}
	t, ok := b.Task(id)
	if !ok || t.Status == to {
		return false, nil
	}
	_, ok, err := b.UpdateTask(ctx, id, model.TaskPatch{Status: &to})
	return ok, err
}

// Shift returns the status delta columns away from st, clamped to the board.
func Shift(st model.Status, delta int) model.Status {
	i := slices.Index(model.Statuses, st)
	if i < 0 {
		return st
	}
	i = max(0, min(len(model.Statuses)-1, i+delta))
	return model.Statuses[i]
}
