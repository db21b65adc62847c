package model

import "time"

// TaskDraft carries the user-supplied fields of a task. Ids, timestamps,
// comments and attachments are always assigned by the store.
type TaskDraft struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           Status    `json:"status"`
	Priority         Priority  `json:"priority"`
	DueDate          *Date     `json:"dueDate"`
	Categories       []string  `json:"categories"`
	Labels           []string  `json:"labels"`
	AssignedTo       []string  `json:"assignedTo"`
	Subtasks         []Subtask `json:"subtasks"`
	Dependencies     []string  `json:"dependencies"`
	EstimatedTime    *int      `json:"estimatedTime"`
	TimeSpent        int       `json:"timeSpent"`
	IsRecurring      bool      `json:"isRecurring"`
	RecurringPattern string    `json:"recurringPattern,omitempty"`
}

// DraftOf copies the user-owned fields of t.
func DraftOf(t Task) TaskDraft {
	c := t.Clone()
	return TaskDraft{
		Title:            c.Title,
		Description:      c.Description,
		Status:           c.Status,
		Priority:         c.Priority,
		DueDate:          c.DueDate,
		Categories:       c.Categories,
		Labels:           c.Labels,
		AssignedTo:       c.AssignedTo,
		Subtasks:         c.Subtasks,
		Dependencies:     c.Dependencies,
		EstimatedTime:    c.EstimatedTime,
		TimeSpent:        c.TimeSpent,
		IsRecurring:      c.IsRecurring,
		RecurringPattern: c.RecurringPattern,
	}
}

// NewTask builds a task from d, applying defaults. The caller validates the result.
func NewTask(id string, d TaskDraft, now time.Time) Task {
	t := Task{
		ID:               id,
		Title:            d.Title,
		Description:      d.Description,
		Status:           d.Status,
		Priority:         d.Priority,
		DueDate:          d.DueDate,
		Categories:       d.Categories,
		Labels:           d.Labels,
		AssignedTo:       d.AssignedTo,
		Subtasks:         d.Subtasks,
		Dependencies:     d.Dependencies,
		EstimatedTime:    d.EstimatedTime,
		TimeSpent:        d.TimeSpent,
		IsRecurring:      d.IsRecurring,
		RecurringPattern: d.RecurringPattern,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.DueDate != nil && t.DueDate.IsZero() {
		t.DueDate = nil
	}
	t = t.Clone()
	t.Comments = []Comment{}
	t.Attachments = []Attachment{}
	return t
}

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Task      TaskDraft `json:"task"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskPatch is a partial update. Nil fields are left untouched; a non-nil
// empty slice clears the list.
type TaskPatch struct {
	Title            *string
	Description      *string
	Status           *Status
	Priority         *Priority
	DueDate          *Date
	ClearDueDate     bool
	Categories       []string
	Labels           []string
	AssignedTo       []string
	Dependencies     []string
	EstimatedTime    *int
	TimeSpent        *int
	IsRecurring      *bool
	RecurringPattern *string
}

// Fields names the task fields p sets, in declaration order.
func (p TaskPatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Title != nil, "title")
	add(p.Description != nil, "description")
	add(p.Status != nil, "status")
	add(p.Priority != nil, "priority")
	add(p.DueDate != nil || p.ClearDueDate, "dueDate")
	add(p.Categories != nil, "categories")
	add(p.Labels != nil, "labels")
	add(p.AssignedTo != nil, "assignedTo")
	add(p.Dependencies != nil, "dependencies")
	add(p.EstimatedTime != nil, "estimatedTime")
	add(p.TimeSpent != nil, "timeSpent")
	add(p.IsRecurring != nil, "isRecurring")
	add(p.RecurringPattern != nil, "recurringPattern")
	return out
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Categories != nil {
		t.Categories = append([]string{}, p.Categories...)
	}
	if p.Labels != nil {
		t.Labels = append([]string{}, p.Labels...)
	}
	if p.AssignedTo != nil {
		t.AssignedTo = append([]string{}, p.AssignedTo...)
	}
	if p.Dependencies != nil {
		t.Dependencies = append([]string{}, p.Dependencies...)
	}
	if p.EstimatedTime != nil {
		v := *p.EstimatedTime
		t.EstimatedTime = &v
	}
	if p.TimeSpent != nil {
		t.TimeSpent = *p.TimeSpent
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	if p.RecurringPattern != nil {
		t.RecurringPattern = *p.RecurringPattern
	}
}
