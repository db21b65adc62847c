package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidTask     = errors.New("model: invalid task")
)

type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"notblank"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text" validate:"notblank"`
	Timestamp time.Time `json:"timestamp"`
}

// Attachment holds metadata only; file contents are never stored.
type Attachment struct {
	ID      string    `json:"id"`
	Name    string    `json:"name" validate:"notblank"`
	AddedAt time.Time `json:"addedAt"`
}

type Task struct {
	ID               string       `json:"id" validate:"required"`
	Title            string       `json:"title" validate:"notblank"`
	Description      string       `json:"description"`
	Status           Status       `json:"status" validate:"taskstatus"`
	Priority         Priority     `json:"priority" validate:"priority"`
	DueDate          *Date        `json:"dueDate"`
	Categories       []string     `json:"categories"`
	Labels           []string     `json:"labels"`
	AssignedTo       []string     `json:"assignedTo"`
	Subtasks         []Subtask    `json:"subtasks" validate:"dive"`
	Dependencies     []string     `json:"dependencies"`
	Comments         []Comment    `json:"comments" validate:"dive"`
	Attachments      []Attachment `json:"attachments" validate:"dive"`
	EstimatedTime    *int         `json:"estimatedTime" validate:"omitempty,gte=0"`
	TimeSpent        int          `json:"timeSpent" validate:"gte=0"`
	IsRecurring      bool         `json:"isRecurring"`
	RecurringPattern string       `json:"recurringPattern,omitempty"`
	CreatedAt        time.Time    `json:"createdAt" validate:"required"`
	UpdatedAt        time.Time    `json:"updatedAt" validate:"required"`
	ArchivedAt       *time.Time   `json:"archivedAt,omitempty"`
}

func (t Task) Validate() error {
	return validateStruct(ErrInvalidTask, t)
}

// IsOverdue reports whether the task's due day lies before today's date.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(DateOf(now))
}

// HasCategory, HasLabel and HasAssignee are exact-match membership checks.
func (t Task) HasCategory(name string) bool { return slices.Contains(t.Categories, name) }
func (t Task) HasLabel(id string) bool      { return slices.Contains(t.Labels, id) }
func (t Task) HasAssignee(id string) bool   { return slices.Contains(t.AssignedTo, id) }

// CompletedSubtasks returns how many subtasks are checked off.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so snapshots never alias live slices.
func (t Task) Clone() Task {
	out := t
	out.Categories = cloneStrings(t.Categories)
	out.Labels = cloneStrings(t.Labels)
	out.AssignedTo = cloneStrings(t.AssignedTo)
	out.Dependencies = cloneStrings(t.Dependencies)
	out.Subtasks = append([]Subtask{}, t.Subtasks...)
	out.Comments = append([]Comment{}, t.Comments...)
	out.Attachments = append([]Attachment{}, t.Attachments...)
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.EstimatedTime != nil {
		v := *t.EstimatedTime
		out.EstimatedTime = &v
	}
	if t.ArchivedAt != nil {
		v := *t.ArchivedAt
		out.ArchivedAt = &v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}
